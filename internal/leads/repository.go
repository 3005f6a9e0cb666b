package leads

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-interiors/meridian/internal/platform/db"
)

const leadColumns = `id, lead_number, store, customer_name, status, total_project_cost,
pay_in_cash, pay_in_online, receive_cash, receive_online, total_exp,
additional_items_cost, total_gst, user_id, expected_handover, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for leads.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanLead(row pgx.Row) (*Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.Number, &l.Store, &l.CustomerName, &l.Status, &l.TotalProjectCost,
		&l.PayInCash, &l.PayInOnline, &l.ReceiveCash, &l.ReceiveOnline, &l.TotalExp,
		&l.AdditionalItemsCost, &l.TotalGST, &l.UserID, &l.ExpectedHandover, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Create inserts a fresh WON lead.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Lead, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO leads (lead_number, store, customer_name, status, user_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
RETURNING `+leadColumns, input.Number, input.Store, input.CustomerName, StatusWon, input.UserID)
	lead, err := scanLead(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateNumber
		}
		return nil, err
	}
	return lead, nil
}

// GetByNumber resolves a lead by its display number.
func (r *Repository) GetByNumber(ctx context.Context, number string) (*Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE lead_number = $1`, number)
	return scanLead(row)
}

// List returns leads matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	args := []any{}
	if filter.Store != "" {
		args = append(args, filter.Store)
		query += ` AND store = $` + itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + itoa(len(args))
	}
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		query += ` AND user_id = $` + itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *lead)
	}
	return out, rows.Err()
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps callback in a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (t *txRepo) GetByNumberForUpdate(ctx context.Context, number string) (*Lead, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE lead_number = $1 FOR UPDATE`, number)
	return scanLead(row)
}

// Initialize sets the cost split and flips the lead to INPROGRESS.
func (t *txRepo) Initialize(ctx context.Context, id int64, input InitInput) (*Lead, error) {
	row := t.tx.QueryRow(ctx, `UPDATE leads SET
status = $2, total_project_cost = $3, pay_in_cash = $4, pay_in_online = $5,
additional_items_cost = $6, total_gst = $7, expected_handover = $8, updated_at = NOW()
WHERE id = $1
RETURNING `+leadColumns,
		id, StatusInProgress, input.TotalProjectCost, input.PayInCash, input.PayInOnline,
		input.AdditionalItemsCost, input.TotalGST, input.ExpectedHandover)
	return scanLead(row)
}

// SetStatus updates only the lifecycle status.
func (t *txRepo) SetStatus(ctx context.Context, id int64, status LeadStatus) (*Lead, error) {
	row := t.tx.QueryRow(ctx, `UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1
RETURNING `+leadColumns, id, status)
	return scanLead(row)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
