package app

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingGuestInfo = errors.New("guest email and full name are required for guest checkout")
	ErrProductNotFound  = errors.New("product not found")
	ErrNotFound         = errors.New("order not found")
	ErrForbidden        = errors.New("not authorized for this order")
	ErrAlreadyPaid      = errors.New("order is already paid")
	ErrNotPayable       = errors.New("order is not awaiting payment")
	ErrAlreadyDelivered = errors.New("order is already delivered")

	// ErrReconcileStock means a compensating stock rollback failed after a
	// partial transition. Stock and order state disagree until an operator
	// intervenes; retrying blindly is unsafe.
	ErrReconcileStock = errors.New("stock reconciliation required")
)
