package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodMomo         PaymentMethod = "momo"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodMomo:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// OrderLine is a frozen snapshot of the product at submission time. Later
// catalog changes never alter an existing order.
type OrderLine struct {
	ProductID string
	Name      string
	Image     string
	UnitPrice int64
	Quantity  int32
}

type ShippingAddress struct {
	FullName    string
	Address     string
	City        string
	PhoneNumber string
}

func (a ShippingAddress) Complete() bool {
	return a.FullName != "" && a.Address != "" && a.City != "" && a.PhoneNumber != ""
}

// PaymentResult is the confirmation snapshot from the external gateway,
// populated only when the order transitions out of pending.
type PaymentResult struct {
	ID         string
	Status     string
	UpdateTime string
	PayerEmail string
}

type Order struct {
	ID    string
	Owner Owner
	Lines []OrderLine

	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Currency        string

	ItemsPrice    int64
	ShippingPrice int64
	TaxPrice      int64
	TotalAmount   int64

	PaymentStatus PaymentStatus
	PaymentResult *PaymentResult

	IsDelivered bool
	DeliveredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineRequest references a product by id; name, price and image are
// snapshotted from the catalog, not taken from the caller.
type LineRequest struct {
	ProductID string
	Quantity  int32
}

// CreateOrderRequest carries the checkout payload. The three sub-totals and
// the total arrive already computed by the caller and are stored verbatim;
// recomputing them server-side is a known hardening gap.
type CreateOrderRequest struct {
	Lines           []LineRequest
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Currency        string

	ItemsPrice    int64
	ShippingPrice int64
	TaxPrice      int64
	TotalAmount   int64

	Guest *GuestContact
}
