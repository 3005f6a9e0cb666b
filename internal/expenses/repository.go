package expenses

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `id, user_id, store, amount, transaction_name, remark, transaction_date`

// Repository provides PostgreSQL backed persistence for store expenses.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a store expense row.
func (r *Repository) Create(ctx context.Context, exp StoreExpense) (*StoreExpense, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO store_expenses
(user_id, store, amount, transaction_name, remark, transaction_date)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		exp.UserID, exp.Store, exp.Amount, exp.Name, exp.Remark, exp.TransactionDate)
	if err := row.Scan(&exp.ID); err != nil {
		return nil, err
	}
	return &exp, nil
}

// List returns expenses matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]StoreExpense, error) {
	query := `SELECT ` + expenseColumns + ` FROM store_expenses WHERE 1=1`
	args := []any{}
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if filter.Store != "" {
		args = append(args, filter.Store)
		query += ` AND store = $` + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND transaction_date >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND transaction_date < $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY transaction_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoreExpense
	for rows.Next() {
		var e StoreExpense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Store, &e.Amount, &e.Name, &e.Remark, &e.TransactionDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
