package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
)

// Category is a closed product classification. The order core never reasons
// about category semantics; validation happens here at the catalog boundary.
type Category string

const (
	CategoryFruits      Category = "Fruits"
	CategoryVegetables  Category = "Vegetables"
	CategorySpices      Category = "Spices"
	CategoryDairy       Category = "Dairy"
	CategoryGrains      Category = "Grains"
	CategoryBeverages   Category = "Beverages"
	CategoryBakery      Category = "Bakery"
	CategoryOils        Category = "Oils & Condiments"
	CategoryFrozen      Category = "Frozen Items"
	CategoryDisposables Category = "Disposables"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryFruits, CategoryVegetables, CategorySpices, CategoryDairy,
		CategoryGrains, CategoryBeverages, CategoryBakery, CategoryOils,
		CategoryFrozen, CategoryDisposables,
	}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// Product is a supplier-owned catalog record. Identity is immutable once
// created: products are replaced, never deleted. Stock is mutated only by the
// order ledger's atomic reservation.
type Product struct {
	ID               uuid.UUID     `json:"id"`
	SupplierID       uuid.UUID     `json:"supplier_id"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	Category         Category      `json:"category"`
	Price            pricing.Paise `json:"price"`
	Unit             string        `json:"unit"` // kg, liters, pieces
	MinOrderQuantity int           `json:"min_order_quantity"`
	StockQuantity    int           `json:"stock_quantity"`
	IsActive         bool          `json:"is_active"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// ProductRequest holds the data for creating or replacing a product.
type ProductRequest struct {
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	Category         Category      `json:"category"`
	Price            pricing.Paise `json:"price"`
	Unit             string        `json:"unit"`
	MinOrderQuantity int           `json:"min_order_quantity"`
	StockQuantity    int           `json:"stock_quantity"`
}
