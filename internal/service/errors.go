// Package service implements the storefront business rules on top of the
// repository layer. Handlers translate the sentinel errors declared here
// into HTTP statuses.
package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNotOwner           = errors.New("resource belongs to another user")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrPaymentNotComplete = errors.New("payment has not succeeded")
	ErrProductUnavailable = errors.New("product unavailable")
)
