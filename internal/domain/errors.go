package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// NotFoundError names the missing resource ("product", "cart item", "order").
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product: %s", e.ProductName)
}

// InvalidTransitionError reports the status the order currently has so
// the client can see why the requested change was rejected.
type InvalidTransitionError struct {
	Current OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: order is currently %s", e.Current)
}
