package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// validTransitions defines the allowed status state machine. Delivered and
// cancelled are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s names a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// Order is an immutable-once-created record of a vendor's purchase from one
// supplier. Only Status ever changes after creation; every monetary field is
// a snapshot taken at placement time.
type Order struct {
	ID              uuid.UUID     `json:"id"`
	VendorID        uuid.UUID     `json:"vendor_id"`
	SupplierID      uuid.UUID     `json:"supplier_id"`
	ClientRequestID string        `json:"client_request_id,omitempty"`
	Items           []*OrderItem  `json:"items"`
	Subtotal        pricing.Paise `json:"subtotal"`
	Tax             pricing.Paise `json:"tax"`
	Total           pricing.Paise `json:"total"`
	TaxRateBps      int           `json:"tax_rate_bps"`
	Status          Status        `json:"status"`
	DeliveryAddress string        `json:"delivery_address"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OrderItem is a single line of an order. Name, unit and price are copied
// from the product at placement time so later catalog edits cannot alter
// historical orders.
type OrderItem struct {
	ProductID   uuid.UUID     `json:"product_id"`
	ProductName string        `json:"product_name"`
	Unit        string        `json:"unit"`
	Quantity    int           `json:"quantity"`
	UnitPrice   pricing.Paise `json:"unit_price"`
	LineTotal   pricing.Paise `json:"line_total"`
}

// CartItem is a transient struct describing what a vendor wants to buy.
// Carts live client-side; nothing is persisted until the order is placed.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest is the payload for placing a new order. ClientRequestID
// is optional; when set, retrying the same request returns the order placed
// by the first attempt instead of placing a second one.
type PlaceOrderRequest struct {
	SupplierID      string     `json:"supplier_id"`
	Items           []CartItem `json:"items"`
	DeliveryAddress string     `json:"delivery_address"`
	ClientRequestID string     `json:"client_request_id,omitempty"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
