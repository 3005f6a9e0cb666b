package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-interiors/meridian/internal/leads"
	"github.com/meridian-interiors/meridian/internal/platform/db"
)

const noteColumns = `id, lead_id, amount, transaction_name, transaction_type,
payment_method, vendor_id, remark, actual_date, transaction_date`

const leadColumns = `id, lead_number, store, customer_name, status, total_project_cost,
pay_in_cash, pay_in_online, receive_cash, receive_online, total_exp,
additional_items_cost, total_gst, user_id, expected_handover, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for the ledger.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
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

// ListByLead returns all notes for a lead, newest first.
func (r *Repository) ListByLead(ctx context.Context, leadID int64) ([]TransactionNote, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+noteColumns+` FROM transaction_notes
WHERE lead_id = $1 ORDER BY transaction_date DESC, id DESC`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []TransactionNote
	for rows.Next() {
		var n TransactionNote
		if err := rows.Scan(&n.ID, &n.LeadID, &n.Amount, &n.Name, &n.Type, &n.Method,
			&n.VendorID, &n.Remark, &n.ActualDate, &n.TransactionDate); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (t *txRepo) GetLeadForUpdate(ctx context.Context, number string) (*leads.Lead, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE lead_number = $1 FOR UPDATE`, number)
	var l leads.Lead
	err := row.Scan(&l.ID, &l.Number, &l.Store, &l.CustomerName, &l.Status, &l.TotalProjectCost,
		&l.PayInCash, &l.PayInOnline, &l.ReceiveCash, &l.ReceiveOnline, &l.TotalExp,
		&l.AdditionalItemsCost, &l.TotalGST, &l.UserID, &l.ExpectedHandover, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, leads.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (t *txRepo) InsertNote(ctx context.Context, note TransactionNote) (*TransactionNote, error) {
	row := t.tx.QueryRow(ctx, `INSERT INTO transaction_notes
(lead_id, amount, transaction_name, transaction_type, payment_method, vendor_id, remark, actual_date, transaction_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`,
		note.LeadID, note.Amount, note.Name, note.Type, note.Method,
		note.VendorID, note.Remark, note.ActualDate, note.TransactionDate)
	if err := row.Scan(&note.ID); err != nil {
		return nil, err
	}
	return &note, nil
}

func (t *txRepo) ApplyLeadDelta(ctx context.Context, leadID int64, delta BalanceDelta) (*leads.Lead, error) {
	row := t.tx.QueryRow(ctx, `UPDATE leads SET
receive_cash = receive_cash + $2,
receive_online = receive_online + $3,
total_exp = total_exp + $4,
updated_at = NOW()
WHERE id = $1
RETURNING `+leadColumns, leadID, delta.ReceiveCash, delta.ReceiveOnline, delta.TotalExp)
	var l leads.Lead
	err := row.Scan(&l.ID, &l.Number, &l.Store, &l.CustomerName, &l.Status, &l.TotalProjectCost,
		&l.PayInCash, &l.PayInOnline, &l.ReceiveCash, &l.ReceiveOnline, &l.TotalExp,
		&l.AdditionalItemsCost, &l.TotalGST, &l.UserID, &l.ExpectedHandover, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (t *txRepo) GetVendorForUpdate(ctx context.Context, vendorID int64) (*VendorBalances, error) {
	row := t.tx.QueryRow(ctx, `SELECT id, name, total_charge, given_charge FROM vendors WHERE id = $1 FOR UPDATE`, vendorID)
	var v VendorBalances
	if err := row.Scan(&v.ID, &v.Name, &v.TotalCharge, &v.GivenCharge); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (t *txRepo) HasBreakdown(ctx context.Context, vendorID, leadID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vendor_breakdowns WHERE vendor_id = $1 AND lead_id = $2)`,
		vendorID, leadID).Scan(&exists)
	return exists, err
}

func (t *txRepo) ApplyGivenDelta(ctx context.Context, vendorID, leadID int64, delta float64) (*VendorBalances, error) {
	if _, err := t.tx.Exec(ctx, `UPDATE vendor_breakdowns SET total_given = total_given + $3, updated_at = NOW()
WHERE vendor_id = $1 AND lead_id = $2`, vendorID, leadID, delta); err != nil {
		return nil, err
	}
	row := t.tx.QueryRow(ctx, `UPDATE vendors SET given_charge = given_charge + $2, updated_at = NOW()
WHERE id = $1 RETURNING id, name, total_charge, given_charge`, vendorID, delta)
	var v VendorBalances
	if err := row.Scan(&v.ID, &v.Name, &v.TotalCharge, &v.GivenCharge); err != nil {
		return nil, err
	}
	return &v, nil
}
