package httpapi

import (
	"errors"
	"net/http"

	catalogapp "github.com/vietcart/ordercore/internal/catalog/app"
	inventoryapp "github.com/vietcart/ordercore/internal/inventory/app"
	"github.com/vietcart/ordercore/internal/order/app"
)

// statusFromError maps core errors onto a stable HTTP status and code. The
// message shown to the caller is the error's own text, which for stock
// shortfalls names the product and the remaining quantity.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrMissingGuestInfo):
		return http.StatusBadRequest, "MISSING_GUEST_INFO"
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, catalogapp.ErrInvalidInput), errors.Is(err, inventoryapp.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, inventoryapp.ErrInsufficientStock):
		return http.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, app.ErrAlreadyPaid):
		return http.StatusConflict, "ALREADY_PAID"
	case errors.Is(err, app.ErrNotPayable):
		return http.StatusConflict, "NOT_PAYABLE"
	case errors.Is(err, app.ErrAlreadyDelivered):
		return http.StatusConflict, "ALREADY_DELIVERED"
	case errors.Is(err, app.ErrProductNotFound):
		return http.StatusNotFound, "PRODUCT_NOT_FOUND"
	case errors.Is(err, app.ErrNotFound), errors.Is(err, catalogapp.ErrNotFound), errors.Is(err, inventoryapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, app.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, app.ErrReconcileStock):
		return http.StatusInternalServerError, "RECONCILE_REQUIRED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
