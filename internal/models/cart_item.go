package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one (user, product) line pending conversion into an order.
// Quantity is merged on repeated adds; price is never stored here, it is
// read from the product at the moment of use.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CartLine is a cart item joined with its product for display, priced at
// the product's current unit price.
type CartLine struct {
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Stock       int             `json:"stock" db:"stock"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"-"`
}

// Cart is the full view of a user's cart with the running total.
type Cart struct {
	Lines []*CartLine     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}
