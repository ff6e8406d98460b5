package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	catalogapp "github.com/vietcart/ordercore/internal/catalog/app"
	catalogmem "github.com/vietcart/ordercore/internal/catalog/infra/memory"
	inventoryapp "github.com/vietcart/ordercore/internal/inventory/app"
	"github.com/vietcart/ordercore/internal/order/app"
	"github.com/vietcart/ordercore/internal/order/domain"
	"github.com/vietcart/ordercore/internal/order/infra/adapter"
	ordermem "github.com/vietcart/ordercore/internal/order/infra/memory"
)

type env struct {
	store  *catalogmem.ProductStore
	ledger *inventoryapp.Ledger
	repo   *ordermem.OrderRepo
	svc    *app.Service
	sink   *recordSink
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := catalogmem.NewProductStore()
	catalogSvc := catalogapp.NewService(store)
	ledger := inventoryapp.NewLedger(store)
	repo := ordermem.NewOrderRepo()
	sink := &recordSink{}
	svc := app.NewService(repo, adapter.NewCatalogServiceReader(catalogSvc), ledger, sink)

	return &env{store: store, ledger: ledger, repo: repo, svc: svc, sink: sink}
}

type recordSink struct {
	mu        sync.Mutex
	created   []string
	paid      []string
	failed    []string
	delivered []string
}

func (s *recordSink) record(dst *[]string, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*dst = append(*dst, id)
}

func (s *recordSink) OrderCreated(_ context.Context, o domain.Order)   { s.record(&s.created, o.ID) }
func (s *recordSink) OrderPaid(_ context.Context, o domain.Order)      { s.record(&s.paid, o.ID) }
func (s *recordSink) OrderFailed(_ context.Context, o domain.Order)    { s.record(&s.failed, o.ID) }
func (s *recordSink) OrderDelivered(_ context.Context, o domain.Order) { s.record(&s.delivered, o.ID) }

func validRequest(productID string, qty int32) domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		Lines: []domain.LineRequest{{ProductID: productID, Quantity: qty}},
		ShippingAddress: domain.ShippingAddress{
			FullName:    "Nguyen Van A",
			Address:     "12 Le Loi",
			City:        "Da Nang",
			PhoneNumber: "0905123456",
		},
		PaymentMethod: domain.PaymentMethodCash,
		Currency:      "VND",
		ItemsPrice:    10,
		ShippingPrice: 5,
		TaxPrice:      0,
		TotalAmount:   15,
	}
}

var guest = &domain.GuestContact{Email: "guest@example.com", FullName: "Tran Thi B"}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	pid := e.store.Seed("Áo thun", "tshirt.jpg", "VND", 10, 5)

	t.Run("empty cart", func(t *testing.T) {
		req := validRequest(pid, 1)
		req.Lines = nil
		req.Guest = guest
		_, err := e.svc.CreateOrder(ctx, req, domain.Principal{})
		if !errors.Is(err, app.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown payment method", func(t *testing.T) {
		req := validRequest(pid, 1)
		req.PaymentMethod = "paypal"
		req.Guest = guest
		_, err := e.svc.CreateOrder(ctx, req, domain.Principal{})
		if !errors.Is(err, app.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("incomplete shipping address", func(t *testing.T) {
		req := validRequest(pid, 1)
		req.ShippingAddress.City = ""
		req.Guest = guest
		_, err := e.svc.CreateOrder(ctx, req, domain.Principal{})
		if !errors.Is(err, app.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		req := validRequest(pid, 1)
		req.TaxPrice = -1
		req.Guest = guest
		_, err := e.svc.CreateOrder(ctx, req, domain.Principal{})
		if !errors.Is(err, app.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		req := validRequest(pid, 0)
		req.Guest = guest
		_, err := e.svc.CreateOrder(ctx, req, domain.Principal{})
		if !errors.Is(err, app.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		req := validRequest("does-not-exist", 1)
		req.Guest = guest
		_, err := e.svc.CreateOrder(ctx, req, domain.Principal{})
		if !errors.Is(err, app.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestCreateOrderGuestRules(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous without guest details", func(t *testing.T) {
		e := newEnv(t)
		pid := e.store.Seed("Áo thun", "tshirt.jpg", "VND", 10, 5)
		_, err := e.svc.CreateOrder(ctx, validRequest(pid, 1), domain.Principal{})
		if !errors.Is(err, app.ErrMissingGuestInfo) {
			t.Fatalf("expected ErrMissingGuestInfo, got %v", err)
		}
	})

	t.Run("anonymous with email only", func(t *testing.T) {
		e := newEnv(t)
		pid := e.store.Seed("Áo thun", "tshirt.jpg", "VND", 10, 5)
		req := validRequest(pid, 1)
		req.Guest = &domain.GuestContact{Email: "guest@example.com"}
		_, err := e.svc.CreateOrder(ctx, req, domain.Principal{})
		if !errors.Is(err, app.ErrMissingGuestInfo) {
			t.Fatalf("expected ErrMissingGuestInfo, got %v", err)
		}
	})

	t.Run("guest checkout succeeds with both fields", func(t *testing.T) {
		e := newEnv(t)
		pid := e.store.Seed("Áo thun", "tshirt.jpg", "VND", 10, 5)
		req := validRequest(pid, 1)
		req.Guest = guest

		order, err := e.svc.CreateOrder(ctx, req, domain.Principal{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Owner.IsRegistered() {
			t.Fatal("guest order must not have a registered owner")
		}
		if !order.Owner.IsGuest() || order.Owner.Guest.Email != "guest@example.com" {
			t.Fatalf("guest details not retained: %+v", order.Owner)
		}
	})

	t.Run("authenticated caller wins over guest details", func(t *testing.T) {
		e := newEnv(t)
		pid := e.store.Seed("Áo thun", "tshirt.jpg", "VND", 10, 5)
		req := validRequest(pid, 1)
		req.Guest = guest

		order, err := e.svc.CreateOrder(ctx, req, domain.Principal{UserID: "u-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !order.Owner.IsRegistered() || order.Owner.UserID != "u-1" {
			t.Fatalf("expected registered owner u-1, got %+v", order.Owner)
		}
		if order.Owner.IsGuest() {
			t.Fatal("order must not carry guest details alongside a registered owner")
		}
	})
}

func TestCreateOrderSnapshotAndState(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	pid := e.store.Seed("Áo thun", "tshirt.jpg", "VND", 10, 3)

	req := validRequest(pid, 1)
	req.Guest = guest

	order, err := e.svc.CreateOrder(ctx, req, domain.Principal{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("expected pending, got %s", order.PaymentStatus)
	}
	if order.IsDelivered || order.DeliveredAt != nil {
		t.Fatal("new order must not be delivered")
	}
	if order.TotalAmount != 15 || order.ItemsPrice != 10 || order.ShippingPrice != 5 {
		t.Fatalf("amounts not stored verbatim: %+v", order)
	}

	ln := order.Lines[0]
	if ln.Name != "Áo thun" || ln.Image != "tshirt.jpg" || ln.UnitPrice != 10 {
		t.Fatalf("line must snapshot catalog fields, got %+v", ln)
	}

	// Creation only validates availability; no decrement yet.
	_, count, _ := e.store.Stock(ctx, pid)
	if count != 3 {
		t.Fatalf("creation must not touch stock, got %d", count)
	}

	if len(e.sink.created) != 1 || e.sink.created[0] != order.ID {
		t.Fatalf("expected one created event for %s, got %v", order.ID, e.sink.created)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	pid := e.store.Seed("Áo thun", "tshirt.jpg", "VND", 10, 2)

	req := validRequest(pid, 3)
	req.Guest = guest

	_, err := e.svc.CreateOrder(ctx, req, domain.Principal{})
	if !errors.Is(err, inventoryapp.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	var ise *inventoryapp.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("expected *InsufficientStockError, got %T", err)
	}
	if ise.ProductName != "Áo thun" || ise.Remaining != 2 {
		t.Fatalf("shortfall must name product and remaining, got %+v", ise)
	}

	// Rejected order leaves no side effects.
	_, count, _ := e.store.Stock(ctx, pid)
	if count != 2 {
		t.Fatalf("rejected order must not touch stock, got %d", count)
	}
}
