package adapter

import (
	"context"
	"errors"
	"fmt"

	catalogapp "github.com/vietcart/ordercore/internal/catalog/app"
	orderapp "github.com/vietcart/ordercore/internal/order/app"
)

// CatalogServiceReader adapts the in-process catalog service to the order
// core's catalog port, translating catalog errors into order-core ones.
type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (orderapp.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
			return orderapp.Product{}, fmt.Errorf("%w: %s", orderapp.ErrProductNotFound, productID)
		}
		return orderapp.Product{}, err
	}

	return orderapp.Product{
		ID:       p.ID,
		Name:     p.Name,
		Image:    p.Image,
		Currency: p.Price.Currency,
		Amount:   p.Price.Amount,
	}, nil
}
