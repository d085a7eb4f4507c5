package model

import (
	"time"

	"github.com/google/uuid"
)

// Product categories recognised by the catalogue.
const (
	CategorySpices    = "spices"
	CategoryGrains    = "grains"
	CategoryOils      = "oils"
	CategorySnacks    = "snacks"
	CategoryBeverages = "beverages"
	CategoryFrozen    = "frozen"
)

// ValidCategories is the set of categories a product may belong to.
var ValidCategories = map[string]bool{
	CategorySpices:    true,
	CategoryGrains:    true,
	CategoryOils:      true,
	CategorySnacks:    true,
	CategoryBeverages: true,
	CategoryFrozen:    true,
}

// Product represents a food product in the catalogue.
// Price is in kobo (minor currency units).
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Price       int64     `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	Sold        int       `json:"sold" db:"sold"`
	Image       string    `json:"image" db:"image"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// PriceHistory is populated on admin reads only.
	PriceHistory []PricePoint `json:"priceHistory,omitempty"`
}

// InStock reports whether the product can currently be purchased.
// Derived from Stock; never stored independently.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// PricePoint is one entry in a product's append-only price history.
type PricePoint struct {
	Price     int64     `json:"price" db:"price"`
	ChangedAt time.Time `json:"changedAt" db:"changed_at"`
}

// ProductPage is the paginated envelope for product listings.
type ProductPage struct {
	Items []Product `json:"items"`
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
	Total int       `json:"total"`
}

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Image       string `json:"image"`
}

// AdjustStockRequest is the payload for an explicit stock adjustment.
// Delta may be negative (sale, return to supplier) or positive (restock).
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

// UpdateProductRequest is a partial patch for an existing product.
// Nil fields are left unchanged. Stock is not patchable here; stock
// moves only through the atomic adjustment path.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Image       *string `json:"image,omitempty"`
}
