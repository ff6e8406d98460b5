package app

import (
	"context"

	"github.com/vietcart/ordercore/internal/catalog/domain"
)

type ProductRepo interface {
	Get(ctx context.Context, id string) (domain.Product, error)
}
