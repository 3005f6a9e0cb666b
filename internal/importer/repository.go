package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository provides PostgreSQL backed import writes.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// InsertLead writes an imported lead in WON status. Lead numbers carry a
// unique constraint; a conflicting row is left untouched and reported as not
// added.
func (r *PGRepository) InsertLead(ctx context.Context, row SheetRow, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `INSERT INTO leads
(lead_number, store, customer_name, status, total_project_cost, pay_in_cash, pay_in_online, user_id)
VALUES ($1, $2, $3, 'WON', $4, $5, $6, $7)
ON CONFLICT (lead_number) DO NOTHING`,
		row.Number, row.Store, row.CustomerName,
		row.TotalProjectCost, row.PayInCash, row.PayInOnline, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UserIDForStore resolves the active manager for a store.
func (r *PGRepository) UserIDForStore(ctx context.Context, store string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM users WHERE store = $1 AND is_active ORDER BY id LIMIT 1`,
		store).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("no active user")
		}
		return 0, err
	}
	return id, nil
}

// InsertNotification records a notification row.
func (r *PGRepository) InsertNotification(ctx context.Context, userID int64, message string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (user_id, message) VALUES ($1, $2)`,
		userID, message)
	return err
}
