package app

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError names the product and how many units remain, which
// is what checkout surfaces to the buyer.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int32
	Remaining   int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %q does not have enough stock: only %d left, requested %d",
		e.ProductName, e.Remaining, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Ledger is the single sanctioned path for stock mutations.
type Ledger struct {
	store StockStore
}

func NewLedger(store StockStore) *Ledger {
	return &Ledger{store: store}
}

// CheckAvailability is a read-only availability probe against the latest
// committed stock count.
func (l *Ledger) CheckAvailability(ctx context.Context, productID string, qty int32) error {
	if qty < 1 {
		return ErrInvalidInput
	}

	name, count, err := l.store.Stock(ctx, productID)
	if err != nil {
		return err
	}
	if count < qty {
		return &InsufficientStockError{
			ProductID:   productID,
			ProductName: name,
			Requested:   qty,
			Remaining:   count,
		}
	}
	return nil
}

// ReserveAndDecrement takes qty units if and only if the current count
// covers them. On shortfall the count is left untouched.
func (l *Ledger) ReserveAndDecrement(ctx context.Context, productID string, qty int32) error {
	if qty < 1 {
		return ErrInvalidInput
	}

	ok, err := l.store.DecrementIfAvailable(ctx, productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		name, count, serr := l.store.Stock(ctx, productID)
		if serr != nil {
			return serr
		}
		return &InsufficientStockError{
			ProductID:   productID,
			ProductName: name,
			Requested:   qty,
			Remaining:   count,
		}
	}
	return nil
}

// Rollback is the compensating increment for a reservation that could not be
// completed.
func (l *Ledger) Rollback(ctx context.Context, productID string, qty int32) error {
	if qty < 1 {
		return ErrInvalidInput
	}
	return l.store.Increment(ctx, productID, qty)
}
