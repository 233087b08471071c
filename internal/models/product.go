package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSearchFilter holds search and filter criteria for catalog queries
type ProductSearchFilter struct {
	Query     string           `json:"query,omitempty"`     // Full-text search across name, description, category
	Category  *string          `json:"category,omitempty"`  // Filter by category
	MinPrice  *decimal.Decimal `json:"min_price,omitempty"` // Minimum unit price
	MaxPrice  *decimal.Decimal `json:"max_price,omitempty"` // Maximum unit price
	InStock   bool             `json:"in_stock,omitempty"`  // Only products with stock > 0
	SortBy    string           `json:"sort_by,omitempty"`   // Sort field: name, created_at, unit_price, stock
	SortOrder string           `json:"sort_order,omitempty"` // Sort order: asc, desc
	Limit     int              `json:"limit,omitempty"`     // Page size (default: 50)
	Offset    int              `json:"offset,omitempty"`    // Page offset
}

type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Size        string          `json:"size" db:"size"`
	Category    string          `json:"category" db:"category"`
	ImageURL    string          `json:"image_url" db:"image_url"`
	Stock       int             `json:"stock" db:"stock"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// StoreStats aggregates catalog-wide inventory figures for the admin panel.
type StoreStats struct {
	TotalProducts  int             `json:"total_products"`
	TotalStock     int             `json:"total_stock"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	UniquePieces   int             `json:"unique_pieces"`
}
