package catalog

import "context"

// Repository defines data access for catalog products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)

	// Replace overwrites every mutable field of an existing product. Product
	// identity (id, supplier) never changes.
	Replace(ctx context.Context, p *Product) error

	// List returns products, optionally filtered by category, newest first.
	List(ctx context.Context, category Category, activeOnly bool) ([]*Product, error)
}
