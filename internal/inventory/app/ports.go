package app

import "context"

// StockStore is the storage primitive behind the ledger. DecrementIfAvailable
// must be a single conditional mutation: decrement only when the current
// count covers qty, report which happened, and never let the count go
// negative under concurrent callers.
type StockStore interface {
	Stock(ctx context.Context, productID string) (name string, count int32, err error)
	DecrementIfAvailable(ctx context.Context, productID string, qty int32) (bool, error)
	Increment(ctx context.Context, productID string, qty int32) error
}
