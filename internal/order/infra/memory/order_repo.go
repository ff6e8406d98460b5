package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vietcart/ordercore/internal/order/app"
	"github.com/vietcart/ordercore/internal/order/domain"
)

// OrderRepo keeps orders in a mutex-guarded map. Status transitions are
// conditional under the lock, matching the conditional UPDATEs of the
// postgres repo.
type OrderRepo struct {
	mu      sync.Mutex
	orders  map[string]domain.Order
	seq     map[string]uint64
	nextSeq uint64
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{
		orders: make(map[string]domain.Order),
		seq:    make(map[string]uint64),
	}
}

func (r *OrderRepo) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.CreatedAt = now
	order.UpdatedAt = now

	r.orders[order.ID] = order
	r.nextSeq++
	r.seq[order.ID] = r.nextSeq
	return clone(order), nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, app.ErrNotFound
	}
	return clone(order), nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Order
	for _, order := range r.orders {
		if order.Owner.IsRegistered() && order.Owner.UserID == userID {
			out = append(out, clone(order))
		}
	}
	r.sortNewestFirst(out)
	return out, nil
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		out = append(out, clone(order))
	}
	r.sortNewestFirst(out)
	return out, nil
}

// sortNewestFirst matches the created_at DESC ordering of the postgres
// repo, with insertion order breaking same-timestamp ties. Callers hold
// r.mu.
func (r *OrderRepo) sortNewestFirst(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return r.seq[orders[i].ID] > r.seq[orders[j].ID]
	})
}

func (r *OrderRepo) MarkPaid(ctx context.Context, id string, result domain.PaymentResult, at time.Time) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, app.ErrNotFound
	}
	switch order.PaymentStatus {
	case domain.PaymentStatusPaid:
		return domain.Order{}, app.ErrAlreadyPaid
	case domain.PaymentStatusFailed:
		return domain.Order{}, app.ErrNotPayable
	}

	order.PaymentStatus = domain.PaymentStatusPaid
	order.PaymentResult = &result
	order.UpdatedAt = at
	r.orders[id] = order
	return clone(order), nil
}

func (r *OrderRepo) MarkFailed(ctx context.Context, id string, result domain.PaymentResult, at time.Time) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, app.ErrNotFound
	}
	switch order.PaymentStatus {
	case domain.PaymentStatusPaid:
		return domain.Order{}, app.ErrAlreadyPaid
	case domain.PaymentStatusFailed:
		return domain.Order{}, app.ErrNotPayable
	}

	order.PaymentStatus = domain.PaymentStatusFailed
	order.PaymentResult = &result
	order.UpdatedAt = at
	r.orders[id] = order
	return clone(order), nil
}

func (r *OrderRepo) MarkDelivered(ctx context.Context, id string, at time.Time) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, app.ErrNotFound
	}
	if order.IsDelivered {
		return domain.Order{}, app.ErrAlreadyDelivered
	}

	order.IsDelivered = true
	deliveredAt := at
	order.DeliveredAt = &deliveredAt
	order.UpdatedAt = at
	r.orders[id] = order
	return clone(order), nil
}

func clone(order domain.Order) domain.Order {
	out := order
	out.Lines = append([]domain.OrderLine(nil), order.Lines...)
	if order.PaymentResult != nil {
		pr := *order.PaymentResult
		out.PaymentResult = &pr
	}
	if order.DeliveredAt != nil {
		at := *order.DeliveredAt
		out.DeliveredAt = &at
	}
	if order.Owner.Guest != nil {
		g := *order.Owner.Guest
		out.Owner.Guest = &g
	}
	return out
}
