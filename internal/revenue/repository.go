package revenue

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-interiors/meridian/internal/leads"
)

// PGRepository provides PostgreSQL backed row loading for the engine.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// LoadSnapshots reads the precomputed revenue table. Each row is already
// a monthly aggregate per store manager.
func (r *PGRepository) LoadSnapshots(ctx context.Context, userID int64) ([]Entry, error) {
	query := `SELECT user_id, store, month, year, revenue, total_profit, project_close, project_count
FROM revenue_snapshots`
	args := []any{}
	if userID != 0 {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var month, year int
		if err := rows.Scan(&e.UserID, &e.Store, &month, &year,
			&e.Revenue, &e.Profit, &e.Closed, &e.Projects); err != nil {
			return nil, err
		}
		e.Date = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		out = append(out, e)
	}
	return out, rows.Err()
}

// LoadOngoing recomputes entries from live INPROGRESS leads, folding in
// each lead's vendor payments.
func (r *PGRepository) LoadOngoing(ctx context.Context, userID int64) ([]Entry, error) {
	query := `SELECT l.user_id, l.store, l.created_at, l.total_project_cost,
l.total_exp, l.receive_cash, l.receive_online, l.pay_in_cash, l.pay_in_online,
COALESCE((SELECT SUM(vb.total_given) FROM vendor_breakdowns vb WHERE vb.lead_id = l.id), 0) AS vendor_payments
FROM leads l
WHERE l.status = $1`
	args := []any{leads.StatusInProgress}
	if userID != 0 {
		query += ` AND l.user_id = $2`
		args = append(args, userID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var totalExp, vendorPayments float64
		if err := rows.Scan(&e.UserID, &e.Store, &e.Date, &e.Revenue,
			&totalExp, &e.ReceiveCash, &e.ReceiveOnline, &e.PayInCash, &e.PayInOnline,
			&vendorPayments); err != nil {
			return nil, err
		}
		e.Profit = e.Revenue - totalExp - vendorPayments
		e.Projects = 1
		out = append(out, e)
	}
	return out, rows.Err()
}

// LoadExpenses reads store expenses for the second bucketing pass.
func (r *PGRepository) LoadExpenses(ctx context.Context, userID int64) ([]ExpenseEntry, error) {
	query := `SELECT user_id, store, amount, transaction_date FROM store_expenses`
	args := []any{}
	if userID != 0 {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseEntry
	for rows.Next() {
		var x ExpenseEntry
		if err := rows.Scan(&x.UserID, &x.Store, &x.Amount, &x.Date); err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, rows.Err()
}

// UpsertSnapshot folds one closed lead into its (user, month, year)
// snapshot row. The month comes from the lead's booking date, matching
// how the live variant buckets leads.
func (r *PGRepository) UpsertSnapshot(ctx context.Context, lead leads.Lead) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO revenue_snapshots
(user_id, store, month, year, revenue, total_profit, project_close, project_count)
VALUES ($1, $2, $3, $4, $5,
	$5 - $6 - COALESCE((SELECT SUM(vb.total_given) FROM vendor_breakdowns vb WHERE vb.lead_id = $7), 0),
	1, 1)
ON CONFLICT (user_id, month, year) DO UPDATE SET
revenue = revenue_snapshots.revenue + EXCLUDED.revenue,
total_profit = revenue_snapshots.total_profit + EXCLUDED.total_profit,
project_close = revenue_snapshots.project_close + EXCLUDED.project_close,
project_count = revenue_snapshots.project_count + EXCLUDED.project_count`,
		lead.UserID, lead.Store, int(lead.CreatedAt.Month()), lead.CreatedAt.Year(),
		lead.TotalProjectCost, lead.TotalExp, lead.ID)
	return err
}
