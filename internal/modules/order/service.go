package order

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// Aggregator receives every committed order for analytics rollups. Ingestion
// is at-least-once: the aggregator deduplicates, so a retried handoff is safe.
type Aggregator interface {
	Ingest(ctx context.Context, o *Order) error
}

// UserDirectory resolves vendor and supplier identities for receipts.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

// Service defines the order ledger business logic.
type Service interface {
	// PlaceOrder validates the cart against the catalog, atomically reserves
	// stock, prices the order and persists it. Either a fully committed order
	// comes back or an error with no side effects.
	PlaceOrder(ctx context.Context, vendorID string, req PlaceOrderRequest) (*Order, error)

	// GetOrder retrieves an order visible to the given actor.
	GetOrder(ctx context.Context, actorID string, role user.Role, id string) (*Order, error)

	// ListOrders returns the actor's orders, as buyer or as seller.
	ListOrders(ctx context.Context, actorID string, role user.Role) ([]*Order, error)

	// UpdateStatus advances an order through its lifecycle. Supplier-facing;
	// transitions outside the state machine are rejected.
	UpdateStatus(ctx context.Context, supplierID, id string, req UpdateStatusRequest) (*Order, error)

	// CancelOrder lets the ordering vendor cancel their own pending order.
	CancelOrder(ctx context.Context, vendorID, id string) error

	// Receipt builds the self-contained invoice projection for an order.
	Receipt(ctx context.Context, actorID string, role user.Role, id string) (*Receipt, error)
}

type service struct {
	repo       Repository
	aggregator Aggregator
	users      UserDirectory
	cache      Cache // optional
	taxRateBps int
}

// NewService creates a new order service. cache may be nil.
func NewService(repo Repository, aggregator Aggregator, users UserDirectory, cache Cache, taxRateBps int) Service {
	return &service{
		repo:       repo,
		aggregator: aggregator,
		users:      users,
		cache:      cache,
		taxRateBps: taxRateBps,
	}
}

func (s *service) PlaceOrder(ctx context.Context, vendorID string, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, errInvalidRequest("order must contain at least one item")
	}
	if req.SupplierID == "" {
		return nil, errInvalidRequest("supplier_id is required")
	}
	vid, err := uuid.Parse(vendorID)
	if err != nil {
		return nil, errInvalidRequest("invalid vendor id")
	}
	sid, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, errInvalidRequest("invalid supplier_id")
	}

	// Idempotent replay: if this client request already placed an order,
	// return it instead of charging stock again.
	if req.ClientRequestID != "" {
		if existing := s.findByRequestID(ctx, req.ClientRequestID); existing != nil {
			return existing, nil
		}
	}

	// ── Validate cart against current catalog state, snapshot prices ─────────
	items := make([]*OrderItem, 0, len(req.Items))
	lines := make([]pricing.Line, 0, len(req.Items))
	for _, ci := range req.Items {
		if ci.Quantity <= 0 {
			return nil, errInvalidRequest("quantity must be > 0 for product %s", ci.ProductID)
		}
		p, err := s.repo.GetProductForOrder(ctx, ci.ProductID)
		if errors.Is(err, ErrNotFound) {
			return nil, errProductNotFound(ci.ProductID)
		}
		if err != nil {
			return nil, errStorageUnavailable(err)
		}
		if !p.IsActive || p.SupplierID != sid {
			return nil, errProductNotFound(ci.ProductID)
		}
		if ci.Quantity < p.MinOrderQuantity {
			return nil, errBelowMinimumOrder(ci.ProductID, p.MinOrderQuantity, ci.Quantity)
		}
		if ci.Quantity > p.StockQuantity {
			return nil, errInsufficientStock(ci.ProductID, ci.Quantity, p.StockQuantity)
		}

		items = append(items, &OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Unit:        p.Unit,
			Quantity:    ci.Quantity,
			UnitPrice:   p.Price,
			LineTotal:   pricing.LineTotal(p.Price, ci.Quantity),
		})
		lines = append(lines, pricing.Line{UnitPrice: p.Price, Quantity: ci.Quantity})
	}

	quote := pricing.Calculate(lines, s.taxRateBps)
	now := time.Now().UTC()
	o := &Order{
		ID:              uuid.New(),
		VendorID:        vid,
		SupplierID:      sid,
		ClientRequestID: req.ClientRequestID,
		Items:           items,
		Subtotal:        quote.Subtotal,
		Tax:             quote.Tax,
		Total:           quote.Total,
		TaxRateBps:      quote.TaxRateBps,
		Status:          StatusPending,
		DeliveryAddress: req.DeliveryAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.createOrder(ctx, o); err != nil {
		if errors.Is(err, ErrDuplicateRequest) {
			// Lost a race against our own retry; the first attempt won.
			if existing := s.findByRequestID(ctx, req.ClientRequestID); existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	// The order is committed; hand it to analytics. A failed handoff is
	// logged, never propagated; the aggregator deduplicates on redelivery.
	if s.aggregator != nil {
		if err := s.aggregator.Ingest(ctx, o); err != nil {
			log.Printf("analytics ingest for order %s failed: %v", o.ID, err)
		}
	}

	if s.cache != nil {
		s.cache.SetOrder(ctx, o)
		if o.ClientRequestID != "" {
			s.cache.RememberRequest(ctx, o.ClientRequestID, o.ID.String())
		}
	}
	return o, nil
}

// createOrder persists the order. Writes carrying a client request id are
// retried with backoff on transient storage failures: the unique request id
// makes the retry safe ("commit status unknown" resolves to at most one
// order). Anonymous placements fail fast instead of risking a double charge.
func (s *service) createOrder(ctx context.Context, o *Order) error {
	attempts := 1
	if o.ClientRequestID != "" {
		attempts = 3
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return errStorageUnavailable(ctx.Err())
			case <-time.After(time.Duration(i) * 100 * time.Millisecond):
			}
		}
		err = s.repo.CreateOrder(ctx, o)
		if err == nil {
			return nil
		}
		var oe *Error
		if errors.As(err, &oe) || errors.Is(err, ErrDuplicateRequest) {
			return err // a definitive outcome, not a transient fault
		}
	}
	return errStorageUnavailable(err)
}

func (s *service) findByRequestID(ctx context.Context, clientRequestID string) *Order {
	if s.cache != nil {
		if orderID, ok := s.cache.OrderIDForRequest(ctx, clientRequestID); ok {
			if o, ok := s.cache.GetOrder(ctx, orderID); ok {
				return o
			}
		}
	}
	o, err := s.repo.GetOrderByClientRequestID(ctx, clientRequestID)
	if err != nil {
		return nil
	}
	return o
}

func (s *service) GetOrder(ctx context.Context, actorID string, role user.Role, id string) (*Order, error) {
	o, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(o, actorID, role) {
		return nil, errForbidden("access denied")
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, actorID string, role user.Role) ([]*Order, error) {
	if role == user.RoleVendor {
		return s.repo.ListOrdersByVendor(ctx, actorID)
	}
	return s.repo.ListOrdersBySupplier(ctx, actorID)
}

func (s *service) UpdateStatus(ctx context.Context, supplierID, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.SupplierID.String() != supplierID {
		return nil, errForbidden("only the supplier of this order can update its status")
	}

	newStatus := Status(req.Status)
	if !newStatus.Valid() {
		return nil, errInvalidRequest("unknown status %q", req.Status)
	}
	if !o.Status.CanTransitionTo(newStatus) {
		return nil, errInvalidTransition(o.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, o.Status, newStatus); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Guard failed: someone else moved the order first.
			return nil, errInvalidTransition(o.Status, newStatus)
		}
		return nil, errStorageUnavailable(err)
	}
	o.Status = newStatus
	if s.cache != nil {
		s.cache.SetOrder(ctx, o)
	}
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, vendorID, id string) error {
	o, err := s.getOrder(ctx, id)
	if err != nil {
		return err
	}
	if o.VendorID.String() != vendorID {
		return errForbidden("only the ordering vendor can cancel this order")
	}
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return errInvalidTransition(o.Status, StatusCancelled)
	}
	if err := s.repo.UpdateStatus(ctx, id, o.Status, StatusCancelled); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errInvalidTransition(o.Status, StatusCancelled)
		}
		return errStorageUnavailable(err)
	}
	if s.cache != nil {
		o.Status = StatusCancelled
		s.cache.SetOrder(ctx, o)
	}
	return nil
}

func (s *service) getOrder(ctx context.Context, id string) (*Order, error) {
	if s.cache != nil {
		if o, ok := s.cache.GetOrder(ctx, id); ok {
			return o, nil
		}
	}
	o, err := s.repo.GetOrderByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, errOrderNotFound(id)
	}
	if err != nil {
		return nil, errStorageUnavailable(err)
	}
	return o, nil
}

func visibleTo(o *Order, actorID string, role user.Role) bool {
	switch role {
	case user.RoleVendor:
		return o.VendorID.String() == actorID
	case user.RoleSupplier:
		return o.SupplierID.String() == actorID
	}
	return false
}
