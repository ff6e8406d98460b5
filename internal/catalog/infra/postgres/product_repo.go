package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/vietcart/ordercore/internal/catalog/app"
	"github.com/vietcart/ordercore/internal/catalog/domain"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const getProductQuery = `
SELECT id, name, price_amount, currency, image, stock_count, created_at, updated_at
FROM products
WHERE id = $1`

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrInvalidInput
	}

	var (
		rowID  uuid.UUID
		p      domain.Product
		amount int64
		cur    string
	)
	err = r.db.QueryRowContext(ctx, getProductQuery, prodID).Scan(
		&rowID, &p.Name, &amount, &cur, &p.Image, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}

	p.ID = rowID.String()
	p.Price = domain.Money{Currency: cur, Amount: amount}
	return p, nil
}
