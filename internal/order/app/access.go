package app

import "github.com/vietcart/ordercore/internal/order/domain"

// canView gates read access to an order: administrators always, registered
// owners for their own orders. Guest orders carry no identity to match, so
// after creation only an administrator can read them.
func canView(caller domain.Principal, order domain.Order) bool {
	if caller.Admin {
		return true
	}
	if order.Owner.IsRegistered() && caller.UserID != "" {
		return caller.UserID == order.Owner.UserID
	}
	return false
}
