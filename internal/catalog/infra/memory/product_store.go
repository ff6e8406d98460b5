package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vietcart/ordercore/internal/catalog/app"
	"github.com/vietcart/ordercore/internal/catalog/domain"
)

// ProductStore is an in-memory product table. It backs both the catalog
// read port and the inventory ledger's stock store, the same way the
// postgres products table does.
type ProductStore struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]domain.Product)}
}

// Seed inserts a product and returns its generated id.
func (s *ProductStore) Seed(name, image, currency string, amount int64, stock int32) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.products[id] = domain.Product{
		ID:    id,
		Name:  name,
		Image: image,
		Price: domain.Money{Currency: currency, Amount: amount},
		Stock: stock,
	}
	return id
}

func (s *ProductStore) Get(ctx context.Context, id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

// Stock reports the product name and current stock count.
func (s *ProductStore) Stock(ctx context.Context, id string) (string, int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return "", 0, app.ErrNotFound
	}
	return p.Name, p.Stock, nil
}

// DecrementIfAvailable applies the conditional decrement under the store
// lock, mirroring the single conditional UPDATE used by the postgres store.
func (s *ProductStore) DecrementIfAvailable(ctx context.Context, id string, qty int32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return false, app.ErrNotFound
	}
	if p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	s.products[id] = p
	return true, nil
}

func (s *ProductStore) Increment(ctx context.Context, id string, qty int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return app.ErrNotFound
	}
	p.Stock += qty
	s.products[id] = p
	return nil
}
