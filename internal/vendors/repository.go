package vendors

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-interiors/meridian/internal/leads"
	"github.com/meridian-interiors/meridian/internal/ledger"
	"github.com/meridian-interiors/meridian/internal/platform/db"
)

const vendorColumns = `id, name, mobile_no, address, city, total_charge, given_charge, created_at, updated_at`
const breakdownColumns = `id, vendor_id, lead_id, total_amt, total_given, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for vendors.
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

func scanVendor(row pgx.Row) (*Vendor, error) {
	var v Vendor
	err := row.Scan(&v.ID, &v.Name, &v.MobileNo, &v.Address, &v.City,
		&v.TotalCharge, &v.GivenCharge, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func scanBreakdown(row pgx.Row) (*Breakdown, error) {
	var b Breakdown
	err := row.Scan(&b.ID, &b.VendorID, &b.LeadID, &b.TotalAmt, &b.TotalGiven, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBreakdownNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create registers a vendor.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Vendor, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO vendors (name, mobile_no, address, city, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING `+vendorColumns,
		input.Name, input.MobileNo, input.Address, input.City)
	return scanVendor(row)
}

// Get returns one vendor.
func (r *Repository) Get(ctx context.Context, vendorID int64) (*Vendor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, vendorID)
	return scanVendor(row)
}

// List returns all vendors ordered by name.
func (r *Repository) List(ctx context.Context) ([]Vendor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// GetLeadID resolves a lead's row id from its display number.
func (r *Repository) GetLeadID(ctx context.Context, leadNumber string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM leads WHERE lead_number = $1`, leadNumber).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, leads.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// ListBreakdownsForLead returns the commitments attached to one lead.
func (r *Repository) ListBreakdownsForLead(ctx context.Context, leadID int64) ([]Breakdown, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+breakdownColumns+` FROM vendor_breakdowns WHERE lead_id = $1 ORDER BY id`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Breakdown
	for rows.Next() {
		b, err := scanBreakdown(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (t *txRepo) GetLeadID(ctx context.Context, leadNumber string) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `SELECT id FROM leads WHERE lead_number = $1`, leadNumber).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, leads.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func (t *txRepo) GetVendorForUpdate(ctx context.Context, vendorID int64) (*Vendor, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1 FOR UPDATE`, vendorID)
	return scanVendor(row)
}

func (t *txRepo) GetBreakdownForUpdate(ctx context.Context, vendorID, leadID int64) (*Breakdown, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+breakdownColumns+` FROM vendor_breakdowns
WHERE vendor_id = $1 AND lead_id = $2 FOR UPDATE`, vendorID, leadID)
	return scanBreakdown(row)
}

func (t *txRepo) CreateBreakdown(ctx context.Context, vendorID, leadID int64, totalAmt float64) (*Breakdown, error) {
	row := t.tx.QueryRow(ctx, `INSERT INTO vendor_breakdowns (vendor_id, lead_id, total_amt, total_given, created_at, updated_at)
VALUES ($1, $2, $3, 0, NOW(), NOW()) RETURNING `+breakdownColumns, vendorID, leadID, totalAmt)
	return scanBreakdown(row)
}

func (t *txRepo) SetBreakdown(ctx context.Context, id int64, totalAmt, totalGiven float64) (*Breakdown, error) {
	row := t.tx.QueryRow(ctx, `UPDATE vendor_breakdowns SET total_amt = $2, total_given = $3, updated_at = NOW()
WHERE id = $1 RETURNING `+breakdownColumns, id, totalAmt, totalGiven)
	return scanBreakdown(row)
}

func (t *txRepo) DeleteBreakdown(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM vendor_breakdowns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBreakdownNotFound
	}
	return nil
}

func (t *txRepo) ApplyVendorDeltas(ctx context.Context, vendorID int64, totalChargeDelta, givenChargeDelta float64) (*Vendor, error) {
	row := t.tx.QueryRow(ctx, `UPDATE vendors SET
total_charge = total_charge + $2,
given_charge = given_charge + $3,
updated_at = NOW()
WHERE id = $1 RETURNING `+vendorColumns, vendorID, totalChargeDelta, givenChargeDelta)
	return scanVendor(row)
}

func (t *txRepo) InsertNote(ctx context.Context, note ledger.TransactionNote) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO transaction_notes
(lead_id, amount, transaction_name, transaction_type, payment_method, vendor_id, remark, actual_date, transaction_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		note.LeadID, note.Amount, note.Name, note.Type, note.Method,
		note.VendorID, note.Remark, note.ActualDate, note.TransactionDate)
	return err
}

func (t *txRepo) ApplyLeadExpDelta(ctx context.Context, leadID int64, delta float64) error {
	_, err := t.tx.Exec(ctx, `UPDATE leads SET total_exp = total_exp + $2, updated_at = NOW() WHERE id = $1`, leadID, delta)
	return err
}

func (t *txRepo) LinkLeadVendor(ctx context.Context, vendorID, leadID int64) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO lead_vendors (vendor_id, lead_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, vendorID, leadID)
	return err
}

func (t *txRepo) UnlinkLeadVendor(ctx context.Context, vendorID, leadID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM lead_vendors WHERE vendor_id = $1 AND lead_id = $2`, vendorID, leadID)
	return err
}
