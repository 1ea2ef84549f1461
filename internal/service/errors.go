package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart aborts checkout before anything is written.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidQuantity rejects non-positive add-to-cart quantities.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// InsufficientStockError names the product that could not be fulfilled. The
// cart is left intact so the customer can adjust it.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}
