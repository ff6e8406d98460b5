package app

import (
	"context"
	"time"

	"github.com/vietcart/ordercore/internal/order/domain"
)

type OrderRepo interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)

	// MarkPaid flips pending -> paid in a single conditional write. Exactly
	// one concurrent caller wins; losers get ErrAlreadyPaid (or ErrNotPayable
	// if the order already failed).
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult, at time.Time) (domain.Order, error)

	// MarkFailed flips pending -> failed under the same conditional rule.
	MarkFailed(ctx context.Context, id string, result domain.PaymentResult, at time.Time) (domain.Order, error)

	// MarkDelivered stamps delivery once; a second call gets
	// ErrAlreadyDelivered.
	MarkDelivered(ctx context.Context, id string, at time.Time) (domain.Order, error)
}

// Product is the catalog projection the order core snapshots from.
type Product struct {
	ID       string
	Name     string
	Image    string
	Currency string
	Amount   int64
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

// InventoryLedger is the only path to the stock counter.
type InventoryLedger interface {
	CheckAvailability(ctx context.Context, productID string, qty int32) error
	ReserveAndDecrement(ctx context.Context, productID string, qty int32) error
	Rollback(ctx context.Context, productID string, qty int32) error
}

// EventSink receives lifecycle notifications after a transition has been
// persisted. Implementations must not fail the transition; delivery is
// best-effort.
type EventSink interface {
	OrderCreated(ctx context.Context, order domain.Order)
	OrderPaid(ctx context.Context, order domain.Order)
	OrderFailed(ctx context.Context, order domain.Order)
	OrderDelivered(ctx context.Context, order domain.Order)
}

// NopSink is the EventSink used when eventing is disabled.
type NopSink struct{}

func (NopSink) OrderCreated(context.Context, domain.Order)   {}
func (NopSink) OrderPaid(context.Context, domain.Order)      {}
func (NopSink) OrderFailed(context.Context, domain.Order)    {}
func (NopSink) OrderDelivered(context.Context, domain.Order) {}
