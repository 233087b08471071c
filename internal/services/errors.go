package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Caller errors. These are always reported with enough detail to correct
// the request; infrastructure failures are returned as-is and surface to
// the client as a generic 500 after the transaction is rolled back.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmailTaken      = errors.New("email is already registered")
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrInvalidStatus   = errors.New("order status does not allow this operation")
)

// InsufficientStockError names the offending product and how many units
// are actually available.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}
