package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vietcart/ordercore/internal/order/domain"
	"golang.org/x/sync/errgroup"
)

// Service drives the order lifecycle: creation, payment and delivery
// transitions. Inventory is decremented at payment-confirmation time, not at
// placement, so an unpaid cart never locks stock away from other buyers.
type Service struct {
	repo      OrderRepo
	catalog   CatalogReader
	inventory InventoryLedger
	events    EventSink

	maxConcurrent int
}

func NewService(repo OrderRepo, catalog CatalogReader, inventory InventoryLedger, events EventSink) *Service {
	if events == nil {
		events = NopSink{}
	}
	return &Service{
		repo:          repo,
		catalog:       catalog,
		inventory:     inventory,
		events:        events,
		maxConcurrent: 8,
	}
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest, caller domain.Principal) (domain.Order, error) {
	if len(req.Lines) == 0 {
		return domain.Order{}, fmt.Errorf("%w: no order items", ErrInvalidInput)
	}

	owner, err := resolveOwner(caller, req.Guest)
	if err != nil {
		return domain.Order{}, err
	}

	if !req.PaymentMethod.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.PaymentMethod)
	}
	if req.Currency == "" {
		return domain.Order{}, fmt.Errorf("%w: currency is required", ErrInvalidInput)
	}
	if !req.ShippingAddress.Complete() {
		return domain.Order{}, fmt.Errorf("%w: incomplete shipping address", ErrInvalidInput)
	}
	if req.ItemsPrice < 0 || req.ShippingPrice < 0 || req.TaxPrice < 0 || req.TotalAmount < 0 {
		return domain.Order{}, fmt.Errorf("%w: amounts cannot be negative", ErrInvalidInput)
	}

	// Snapshot and availability-check every line before anything is
	// persisted. No stock is decremented here.
	lines := make([]domain.OrderLine, len(req.Lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range req.Lines {
		g.Go(func() error {
			ln := req.Lines[idx]
			if ln.Quantity < 1 {
				return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidInput, ln.Quantity)
			}

			p, err := s.catalog.GetProduct(gctx, ln.ProductID)
			if err != nil {
				return err
			}
			if err := s.inventory.CheckAvailability(gctx, ln.ProductID, ln.Quantity); err != nil {
				return err
			}

			lines[idx] = domain.OrderLine{
				ProductID: p.ID,
				Name:      p.Name,
				Image:     p.Image,
				UnitPrice: p.Amount,
				Quantity:  ln.Quantity,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		Owner:           owner,
		Lines:           lines,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Currency:        req.Currency,
		ItemsPrice:      req.ItemsPrice,
		ShippingPrice:   req.ShippingPrice,
		TaxPrice:        req.TaxPrice,
		TotalAmount:     req.TotalAmount,
		PaymentStatus:   domain.PaymentStatusPending,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	s.events.OrderCreated(ctx, created)
	return created, nil
}

func resolveOwner(caller domain.Principal, guest *domain.GuestContact) (domain.Owner, error) {
	if caller.UserID != "" {
		return domain.RegisteredOwner(caller.UserID), nil
	}
	if guest == nil || guest.Email == "" || guest.FullName == "" {
		return domain.Owner{}, ErrMissingGuestInfo
	}
	return domain.GuestOwner(guest.Email, guest.FullName), nil
}

func (s *Service) GetOrder(ctx context.Context, id string, caller domain.Principal) (domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !canView(caller, order) {
		return domain.Order{}, ErrForbidden
	}
	return order, nil
}

func (s *Service) ListMyOrders(ctx context.Context, caller domain.Principal) ([]domain.Order, error) {
	if caller.UserID == "" {
		return nil, ErrForbidden
	}
	return s.repo.ListByUser(ctx, caller.UserID)
}

func (s *Service) ListAllOrders(ctx context.Context, caller domain.Principal) ([]domain.Order, error) {
	if !caller.Admin {
		return nil, ErrForbidden
	}
	return s.repo.ListAll(ctx)
}

// MarkPaid applies the trusted payment confirmation: decrement stock for
// every line, then flip pending -> paid together with the result snapshot.
// Lines already decremented are rolled back if a later line is short or the
// conditional persist loses, so the transition never half-applies and a
// repeated confirmation never decrements twice.
func (s *Service) MarkPaid(ctx context.Context, id string, result domain.PaymentResult) (domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	switch order.PaymentStatus {
	case domain.PaymentStatusPaid:
		return domain.Order{}, ErrAlreadyPaid
	case domain.PaymentStatusFailed:
		return domain.Order{}, ErrNotPayable
	}

	// All-or-nothing approximation: probe every line before touching any
	// counter, so a doomed confirmation usually aborts with zero side
	// effects.
	for _, ln := range order.Lines {
		if err := s.inventory.CheckAvailability(ctx, ln.ProductID, ln.Quantity); err != nil {
			return domain.Order{}, s.settledMeanwhile(ctx, id, err)
		}
	}

	taken := make([]domain.OrderLine, 0, len(order.Lines))
	for _, ln := range order.Lines {
		if err := s.inventory.ReserveAndDecrement(ctx, ln.ProductID, ln.Quantity); err != nil {
			if rbErr := s.rollbackLines(ctx, taken); rbErr != nil {
				return domain.Order{}, fmt.Errorf("%w: %v (while aborting: %v)", ErrReconcileStock, rbErr, err)
			}
			return domain.Order{}, s.settledMeanwhile(ctx, id, err)
		}
		taken = append(taken, ln)
	}

	updated, err := s.repo.MarkPaid(ctx, id, result, time.Now().UTC())
	if err != nil {
		// A concurrent confirmation won, or the store failed. Either way
		// this call must not keep its decrements.
		if rbErr := s.rollbackLines(ctx, taken); rbErr != nil {
			return domain.Order{}, fmt.Errorf("%w: %v (while aborting: %v)", ErrReconcileStock, rbErr, err)
		}
		return domain.Order{}, err
	}

	s.events.OrderPaid(ctx, updated)
	return updated, nil
}

// settledMeanwhile tells a genuine shortfall apart from losing a race with
// another confirmation of the same order. When two confirmations both read
// the order as pending, the winner's decrement can eat the stock the loser's
// check sees; the loser must then report the settled outcome, not a
// shortfall. Returns cause unchanged if the order is still pending.
func (s *Service) settledMeanwhile(ctx context.Context, id string, cause error) error {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return cause
	}
	switch order.PaymentStatus {
	case domain.PaymentStatusPaid:
		return ErrAlreadyPaid
	case domain.PaymentStatusFailed:
		return ErrNotPayable
	}
	return cause
}

func (s *Service) rollbackLines(ctx context.Context, lines []domain.OrderLine) error {
	for _, ln := range lines {
		if err := s.inventory.Rollback(ctx, ln.ProductID, ln.Quantity); err != nil {
			return fmt.Errorf("rollback of product %s failed: %w", ln.ProductID, err)
		}
	}
	return nil
}

// MarkFailed records a failed payment confirmation. No inventory effect.
func (s *Service) MarkFailed(ctx context.Context, id string, result domain.PaymentResult) (domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	switch order.PaymentStatus {
	case domain.PaymentStatusPaid:
		return domain.Order{}, ErrAlreadyPaid
	case domain.PaymentStatusFailed:
		return domain.Order{}, ErrNotPayable
	}

	updated, err := s.repo.MarkFailed(ctx, id, result, time.Now().UTC())
	if err != nil {
		return domain.Order{}, err
	}

	s.events.OrderFailed(ctx, updated)
	return updated, nil
}

// MarkDelivered stamps delivery. Delivery is independent of payment status;
// cash orders are routinely delivered before they are recorded as paid.
func (s *Service) MarkDelivered(ctx context.Context, id string, caller domain.Principal) (domain.Order, error) {
	if !caller.Admin {
		return domain.Order{}, ErrForbidden
	}

	updated, err := s.repo.MarkDelivered(ctx, id, time.Now().UTC())
	if err != nil {
		return domain.Order{}, err
	}

	s.events.OrderDelivered(ctx, updated)
	return updated, nil
}
