package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/vietcart/ordercore/internal/inventory/app"
)

// StockRepo mutates the stock_count column of the catalog's products table.
// Both mutations are single conditional statements so concurrent checkouts
// race at the database, not in application memory.
type StockRepo struct {
	db *sql.DB
}

func NewStockRepo(db *sql.DB) *StockRepo {
	return &StockRepo{db: db}
}

func (r *StockRepo) Stock(ctx context.Context, productID string) (string, int32, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return "", 0, app.ErrInvalidInput
	}

	var (
		name  string
		count int32
	)
	err = r.db.QueryRowContext(ctx,
		`SELECT name, stock_count FROM products WHERE id = $1`, id,
	).Scan(&name, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, app.ErrNotFound
	}
	if err != nil {
		return "", 0, err
	}
	return name, count, nil
}

func (r *StockRepo) DecrementIfAvailable(ctx context.Context, productID string, qty int32) (bool, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return false, app.ErrInvalidInput
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE products
SET stock_count = stock_count - $2, updated_at = now()
WHERE id = $1 AND stock_count >= $2`, id, qty)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *StockRepo) Increment(ctx context.Context, productID string, qty int32) error {
	id, err := uuid.Parse(productID)
	if err != nil {
		return app.ErrInvalidInput
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE products
SET stock_count = stock_count + $2, updated_at = now()
WHERE id = $1`, id, qty)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return app.ErrNotFound
	}
	return nil
}
