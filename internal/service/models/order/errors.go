package order

import "errors"

var (
	// ErrOrderNotFound is returned when no order matches the given id or number.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition is returned when the requested edge is not permitted
	// from the order's current status, including lost optimistic-concurrency races.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrEmptyCart is returned when a submission finds no cart lines for the user.
	ErrEmptyCart = errors.New("shopping cart is empty")

	// ErrPriceMismatch is returned when the client-supplied amount does not equal
	// the recomputed authoritative total.
	ErrPriceMismatch = errors.New("order amount mismatch")

	// ErrAddressNotFound is returned when the submitted address id does not exist.
	ErrAddressNotFound = errors.New("address not found")
)
