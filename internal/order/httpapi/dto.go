package httpapi

import (
	"time"

	"github.com/vietcart/ordercore/internal/order/domain"
)

type lineRequest struct {
	Product  string `json:"product"`
	Quantity int32  `json:"quantity"`
}

type shippingAddress struct {
	FullName    string `json:"fullName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PhoneNumber string `json:"phoneNumber"`
}

type guestDetails struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type createOrderRequest struct {
	Items           []lineRequest   `json:"items"`
	ShippingAddress shippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Currency        string          `json:"currency"`
	ItemsPrice      int64           `json:"itemsPrice"`
	ShippingPrice   int64           `json:"shippingPrice"`
	TaxPrice        int64           `json:"taxPrice"`
	TotalAmount     int64           `json:"totalAmount"`
	GuestDetails    *guestDetails   `json:"guestDetails,omitempty"`
}

func (r createOrderRequest) toDomain() domain.CreateOrderRequest {
	lines := make([]domain.LineRequest, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, domain.LineRequest{ProductID: it.Product, Quantity: it.Quantity})
	}

	req := domain.CreateOrderRequest{
		Lines: lines,
		ShippingAddress: domain.ShippingAddress{
			FullName:    r.ShippingAddress.FullName,
			Address:     r.ShippingAddress.Address,
			City:        r.ShippingAddress.City,
			PhoneNumber: r.ShippingAddress.PhoneNumber,
		},
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Currency:      r.Currency,
		ItemsPrice:    r.ItemsPrice,
		ShippingPrice: r.ShippingPrice,
		TaxPrice:      r.TaxPrice,
		TotalAmount:   r.TotalAmount,
	}
	if r.GuestDetails != nil {
		req.Guest = &domain.GuestContact{
			Email:    r.GuestDetails.Email,
			FullName: r.GuestDetails.FullName,
		}
	}
	return req
}

type paymentConfirmationRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type orderLineResponse struct {
	Product  string `json:"product"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Price    int64  `json:"price"`
	Quantity int32  `json:"quantity"`
}

type paymentResultResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type orderResponse struct {
	ID              string                 `json:"id"`
	User            string                 `json:"user,omitempty"`
	GuestDetails    *guestDetails          `json:"guestDetails,omitempty"`
	Items           []orderLineResponse    `json:"items"`
	ShippingAddress shippingAddress        `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Currency        string                 `json:"currency"`
	ItemsPrice      int64                  `json:"itemsPrice"`
	ShippingPrice   int64                  `json:"shippingPrice"`
	TaxPrice        int64                  `json:"taxPrice"`
	TotalAmount     int64                  `json:"totalAmount"`
	PaymentStatus   string                 `json:"paymentStatus"`
	PaymentResult   *paymentResultResponse `json:"paymentResult,omitempty"`
	IsDelivered     bool                   `json:"isDelivered"`
	DeliveredAt     *time.Time             `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func toOrderResponse(o domain.Order) orderResponse {
	items := make([]orderLineResponse, 0, len(o.Lines))
	for _, ln := range o.Lines {
		items = append(items, orderLineResponse{
			Product:  ln.ProductID,
			Name:     ln.Name,
			Image:    ln.Image,
			Price:    ln.UnitPrice,
			Quantity: ln.Quantity,
		})
	}

	resp := orderResponse{
		ID:    o.ID,
		Items: items,
		ShippingAddress: shippingAddress{
			FullName:    o.ShippingAddress.FullName,
			Address:     o.ShippingAddress.Address,
			City:        o.ShippingAddress.City,
			PhoneNumber: o.ShippingAddress.PhoneNumber,
		},
		PaymentMethod: string(o.PaymentMethod),
		Currency:      o.Currency,
		ItemsPrice:    o.ItemsPrice,
		ShippingPrice: o.ShippingPrice,
		TaxPrice:      o.TaxPrice,
		TotalAmount:   o.TotalAmount,
		PaymentStatus: string(o.PaymentStatus),
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	if o.Owner.IsRegistered() {
		resp.User = o.Owner.UserID
	} else if o.Owner.Guest != nil {
		resp.GuestDetails = &guestDetails{
			Email:    o.Owner.Guest.Email,
			FullName: o.Owner.Guest.FullName,
		}
	}
	if o.PaymentResult != nil {
		resp.PaymentResult = &paymentResultResponse{
			ID:           o.PaymentResult.ID,
			Status:       o.PaymentResult.Status,
			UpdateTime:   o.PaymentResult.UpdateTime,
			EmailAddress: o.PaymentResult.PayerEmail,
		}
	}
	return resp
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
