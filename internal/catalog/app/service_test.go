package app

import (
	"context"
	"testing"

	"github.com/vietcart/ordercore/internal/catalog/domain"
)

type fakeRepo struct{}

func (fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	if id == "missing" {
		return domain.Product{}, ErrNotFound
	}
	return domain.Product{ID: id, Name: "Keyboard"}, nil
}

func TestGetProduct(t *testing.T) {
	svc := NewService(fakeRepo{})

	t.Run("blank id -> invalid", func(t *testing.T) {
		_, err := svc.GetProduct(context.Background(), "   ")
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown id -> not found", func(t *testing.T) {
		_, err := svc.GetProduct(context.Background(), "missing")
		if err != ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("known id", func(t *testing.T) {
		p, err := svc.GetProduct(context.Background(), "p-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "Keyboard" {
			t.Fatalf("unexpected product: %+v", p)
		}
	})
}
