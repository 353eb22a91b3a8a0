package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateRequest is returned by CreateOrder when another order already
// carries the same client request id (a concurrent idempotent retry).
var ErrDuplicateRequest = errors.New("order already exists for client request id")

// ProductInfo is the catalog state an order placement needs: current price,
// stock and ordering constraints, read at placement time.
type ProductInfo struct {
	ID               uuid.UUID
	SupplierID       uuid.UUID
	Name             string
	Unit             string
	Price            pricing.Paise
	MinOrderQuantity int
	StockQuantity    int
	IsActive         bool
}

// Repository defines data access for the order ledger.
type Repository interface {
	// GetProductForOrder reads the current catalog state of one product.
	GetProductForOrder(ctx context.Context, productID string) (*ProductInfo, error)

	// CreateOrder atomically decrements stock for every item and persists the
	// order with its items: either all decrements and the order commit
	// together, or nothing changes. A shortage on any item aborts the whole
	// order with an INSUFFICIENT_STOCK *Error naming the product.
	CreateOrder(ctx context.Context, o *Order) error

	GetOrderByID(ctx context.Context, id string) (*Order, error)
	GetOrderByClientRequestID(ctx context.Context, clientRequestID string) (*Order, error)
	ListOrdersByVendor(ctx context.Context, vendorID string) ([]*Order, error)
	ListOrdersBySupplier(ctx context.Context, supplierID string) ([]*Order, error)

	// UpdateStatus advances an order from one status to another. The guard on
	// the current status serializes concurrent transition attempts; a stale
	// guard returns ErrNotFound.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}
