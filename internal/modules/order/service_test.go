package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// fakeRepo is an in-memory Repository with the same atomicity semantics as the
// postgres one: CreateOrder decrements stock for every item or fails with no
// effect, and UpdateStatus is guarded by the expected current status.
type fakeRepo struct {
	mu       sync.Mutex
	products map[string]*ProductInfo
	orders   map[string]*Order
	byReqID  map[string]string

	createFailures []error // scripted CreateOrder failures, consumed in order
	missLookups    int     // scripted GetOrderByClientRequestID misses
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products: map[string]*ProductInfo{},
		orders:   map[string]*Order{},
		byReqID:  map[string]string{},
	}
}

func (r *fakeRepo) addProduct(p ProductInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := p
	r.products[p.ID.String()] = &cp
}

func (r *fakeRepo) stock(productID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[productID.String()].StockQuantity
}

func (r *fakeRepo) GetProductForOrder(ctx context.Context, productID string) (*ProductInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) CreateOrder(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.createFailures) > 0 {
		err := r.createFailures[0]
		r.createFailures = r.createFailures[1:]
		return err
	}
	if o.ClientRequestID != "" {
		if _, exists := r.byReqID[o.ClientRequestID]; exists {
			return ErrDuplicateRequest
		}
	}

	for _, it := range o.Items {
		p, ok := r.products[it.ProductID.String()]
		if !ok {
			return errProductNotFound(it.ProductID.String())
		}
		if p.StockQuantity < it.Quantity {
			return errInsufficientStock(it.ProductID.String(), it.Quantity, p.StockQuantity)
		}
	}
	for _, it := range o.Items {
		r.products[it.ProductID.String()].StockQuantity -= it.Quantity
	}

	cp := *o
	r.orders[o.ID.String()] = &cp
	if o.ClientRequestID != "" {
		r.byReqID[o.ClientRequestID] = o.ID.String()
	}
	return nil
}

func (r *fakeRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) GetOrderByClientRequestID(ctx context.Context, clientRequestID string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missLookups > 0 {
		r.missLookups--
		return nil, ErrNotFound
	}
	id, ok := r.byReqID[clientRequestID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r.orders[id]
	return &cp, nil
}

func (r *fakeRepo) ListOrdersByVendor(ctx context.Context, vendorID string) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Order
	for _, o := range r.orders {
		if o.VendorID.String() == vendorID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListOrdersBySupplier(ctx context.Context, supplierID string) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Order
	for _, o := range r.orders {
		if o.SupplierID.String() == supplierID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return ErrNotFound
	}
	o.Status = to
	return nil
}

type fakeAggregator struct {
	mu       sync.Mutex
	ingested []*Order
}

func (a *fakeAggregator) Ingest(ctx context.Context, o *Order) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ingested = append(a.ingested, o)
	return nil
}

type fakeUsers struct{ byID map[string]*user.User }

func (f *fakeUsers) GetUser(ctx context.Context, id string) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return u, nil
}

const taxRateBps = 500 // 5% GST

type fixture struct {
	repo       *fakeRepo
	aggregator *fakeAggregator
	service    Service

	vendorID   uuid.UUID
	supplierID uuid.UUID
	onions     uuid.UUID // Rs 50/kg, min 1, stock 100
	tomatoes   uuid.UUID // Rs 30/kg, min 1, stock 50
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:       newFakeRepo(),
		aggregator: &fakeAggregator{},
		vendorID:   uuid.New(),
		supplierID: uuid.New(),
		onions:     uuid.New(),
		tomatoes:   uuid.New(),
	}
	f.repo.addProduct(ProductInfo{
		ID: f.onions, SupplierID: f.supplierID, Name: "Fresh Onions", Unit: "kg",
		Price: 5000, MinOrderQuantity: 1, StockQuantity: 100, IsActive: true,
	})
	f.repo.addProduct(ProductInfo{
		ID: f.tomatoes, SupplierID: f.supplierID, Name: "Tomatoes", Unit: "kg",
		Price: 3000, MinOrderQuantity: 1, StockQuantity: 50, IsActive: true,
	})
	f.service = NewService(f.repo, f.aggregator, nil, nil, taxRateBps)
	return f
}

func (f *fixture) placeRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		SupplierID: f.supplierID.String(),
		Items: []CartItem{
			{ProductID: f.onions.String(), Quantity: 2},
			{ProductID: f.tomatoes.String(), Quantity: 1},
		},
		DeliveryAddress: "14 Gandhi Market Road, Pune",
	}
}

func asOrderError(t *testing.T, err error, code ErrorCode) *Error {
	t.Helper()
	var oe *Error
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, code, oe.Code)
	return oe
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)

	o, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), f.placeRequest())
	require.NoError(t, err)

	// 2 kg onions at Rs 50 plus 1 kg tomatoes at Rs 30 is Rs 130, 5% GST Rs 6.50.
	assert.Equal(t, pricing.Paise(13000), o.Subtotal)
	assert.Equal(t, pricing.Paise(650), o.Tax)
	assert.Equal(t, pricing.Paise(13650), o.Total)
	assert.Equal(t, o.Subtotal+o.Tax, o.Total)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, f.vendorID, o.VendorID)
	assert.Equal(t, f.supplierID, o.SupplierID)

	require.Len(t, o.Items, 2)
	assert.Equal(t, "Fresh Onions", o.Items[0].ProductName)
	assert.Equal(t, pricing.Paise(10000), o.Items[0].LineTotal)

	assert.Equal(t, 98, f.repo.stock(f.onions))
	assert.Equal(t, 49, f.repo.stock(f.tomatoes))

	require.Len(t, f.aggregator.ingested, 1)
	assert.Equal(t, o.ID, f.aggregator.ingested[0].ID)
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		req := f.placeRequest()
		req.Items = nil
		_, err := f.service.PlaceOrder(ctx, f.vendorID.String(), req)
		asOrderError(t, err, CodeInvalidRequest)
	})

	t.Run("missing supplier", func(t *testing.T) {
		req := f.placeRequest()
		req.SupplierID = ""
		_, err := f.service.PlaceOrder(ctx, f.vendorID.String(), req)
		asOrderError(t, err, CodeInvalidRequest)
	})

	t.Run("zero quantity", func(t *testing.T) {
		req := f.placeRequest()
		req.Items[0].Quantity = 0
		_, err := f.service.PlaceOrder(ctx, f.vendorID.String(), req)
		asOrderError(t, err, CodeInvalidRequest)
	})

	t.Run("unknown product", func(t *testing.T) {
		req := f.placeRequest()
		req.Items[0].ProductID = uuid.NewString()
		_, err := f.service.PlaceOrder(ctx, f.vendorID.String(), req)
		asOrderError(t, err, CodeProductNotFound)
	})

	t.Run("product of another supplier", func(t *testing.T) {
		other := uuid.New()
		f.repo.addProduct(ProductInfo{
			ID: other, SupplierID: uuid.New(), Name: "Basmati Rice", Unit: "kg",
			Price: 9000, MinOrderQuantity: 1, StockQuantity: 10, IsActive: true,
		})
		req := f.placeRequest()
		req.Items[0].ProductID = other.String()
		_, err := f.service.PlaceOrder(ctx, f.vendorID.String(), req)
		asOrderError(t, err, CodeProductNotFound)
	})

	t.Run("inactive product", func(t *testing.T) {
		inactive := uuid.New()
		f.repo.addProduct(ProductInfo{
			ID: inactive, SupplierID: f.supplierID, Name: "Old Stock", Unit: "kg",
			Price: 1000, MinOrderQuantity: 1, StockQuantity: 10, IsActive: false,
		})
		req := f.placeRequest()
		req.Items[0].ProductID = inactive.String()
		_, err := f.service.PlaceOrder(ctx, f.vendorID.String(), req)
		asOrderError(t, err, CodeProductNotFound)
	})

	// Nothing above should have touched stock.
	assert.Equal(t, 100, f.repo.stock(f.onions))
	assert.Equal(t, 50, f.repo.stock(f.tomatoes))
}

func TestPlaceOrderBelowMinimum(t *testing.T) {
	f := newFixture(t)
	bulk := uuid.New()
	f.repo.addProduct(ProductInfo{
		ID: bulk, SupplierID: f.supplierID, Name: "Cooking Oil", Unit: "liters",
		Price: 12000, MinOrderQuantity: 5, StockQuantity: 40, IsActive: true,
	})

	req := PlaceOrderRequest{
		SupplierID: f.supplierID.String(),
		Items:      []CartItem{{ProductID: bulk.String(), Quantity: 2}},
	}
	_, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), req)

	oe := asOrderError(t, err, CodeBelowMinimumOrder)
	assert.Equal(t, bulk.String(), oe.ProductID)
	assert.Equal(t, 5, oe.MinimumOrder)
	assert.Equal(t, 2, oe.Requested)
	assert.Equal(t, 40, f.repo.stock(bulk))
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newFixture(t)

	req := PlaceOrderRequest{
		SupplierID: f.supplierID.String(),
		Items: []CartItem{
			{ProductID: f.onions.String(), Quantity: 2},
			{ProductID: f.tomatoes.String(), Quantity: 51},
		},
	}
	_, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), req)

	oe := asOrderError(t, err, CodeInsufficientStock)
	assert.Equal(t, f.tomatoes.String(), oe.ProductID)
	assert.Equal(t, 51, oe.Requested)
	assert.Equal(t, 50, oe.Available)

	// All or nothing: the onions line must not have been charged.
	assert.Equal(t, 100, f.repo.stock(f.onions))
	assert.Equal(t, 50, f.repo.stock(f.tomatoes))
	assert.Empty(t, f.aggregator.ingested)
}

func TestPlaceOrderConcurrentShortage(t *testing.T) {
	f := newFixture(t)
	scarce := uuid.New()
	f.repo.addProduct(ProductInfo{
		ID: scarce, SupplierID: f.supplierID, Name: "Paneer", Unit: "kg",
		Price: 32000, MinOrderQuantity: 2, StockQuantity: 5, IsActive: true,
	})

	// Two vendors race for 3 of 5 units each. Exactly one order can win.
	req := PlaceOrderRequest{
		SupplierID: f.supplierID.String(),
		Items:      []CartItem{{ProductID: scarce.String(), Quantity: 3}},
	}

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.PlaceOrder(context.Background(), uuid.NewString(), req)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var failures []error
	for err := range results {
		if err != nil {
			failures = append(failures, err)
		}
	}
	require.Len(t, failures, 1)
	asOrderError(t, failures[0], CodeInsufficientStock)
	assert.Equal(t, 2, f.repo.stock(scarce))
}

func TestPlaceOrderConcurrentNeverOversells(t *testing.T) {
	f := newFixture(t)
	scarce := uuid.New()
	f.repo.addProduct(ProductInfo{
		ID: scarce, SupplierID: f.supplierID, Name: "Green Chilies", Unit: "kg",
		Price: 8000, MinOrderQuantity: 1, StockQuantity: 10, IsActive: true,
	})

	req := PlaceOrderRequest{
		SupplierID: f.supplierID.String(),
		Items:      []CartItem{{ProductID: scarce.String(), Quantity: 3}},
	}

	var wg sync.WaitGroup
	var successes int64
	var mu sync.Mutex
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.PlaceOrder(context.Background(), uuid.NewString(), req); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	remaining := f.repo.stock(scarce)
	assert.GreaterOrEqual(t, remaining, 0)
	assert.Equal(t, 10-int(successes)*3, remaining)
	assert.LessOrEqual(t, successes, int64(3))
}

func TestPlaceOrderIdempotentReplay(t *testing.T) {
	f := newFixture(t)
	req := f.placeRequest()
	req.ClientRequestID = "req-7f3a"

	first, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), req)
	require.NoError(t, err)

	second, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Total, second.Total)
	// Stock charged exactly once, analytics handed exactly one order.
	assert.Equal(t, 98, f.repo.stock(f.onions))
	assert.Len(t, f.aggregator.ingested, 1)
}

func TestPlaceOrderDuplicateRequestRace(t *testing.T) {
	f := newFixture(t)
	req := f.placeRequest()
	req.ClientRequestID = "req-race"

	// Seed the winning order as if a concurrent retry committed first. The
	// scripted lookup miss blinds the pre-check, so the duplicate surfaces
	// from CreateOrder and must resolve to the winner.
	winner, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), req)
	require.NoError(t, err)

	f.repo.mu.Lock()
	f.repo.createFailures = []error{ErrDuplicateRequest}
	f.repo.missLookups = 1
	f.repo.mu.Unlock()

	replay, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, replay.ID)
}

func TestPlaceOrderRetriesTransientFailure(t *testing.T) {
	f := newFixture(t)
	req := f.placeRequest()
	req.ClientRequestID = "req-retry"
	f.repo.createFailures = []error{errors.New("connection reset")}

	o, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 98, f.repo.stock(f.onions))
}

func TestPlaceOrderNoRetryWithoutRequestID(t *testing.T) {
	f := newFixture(t)
	f.repo.createFailures = []error{errors.New("connection reset")}

	_, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), f.placeRequest())
	asOrderError(t, err, CodeStorageUnavailable)
	// The single attempt failed and must not be repeated blindly.
	assert.Equal(t, 100, f.repo.stock(f.onions))
}

func TestOrderSnapshotSurvivesCatalogEdits(t *testing.T) {
	f := newFixture(t)

	o, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), f.placeRequest())
	require.NoError(t, err)

	// Reprice and rename the product after the order committed.
	f.repo.mu.Lock()
	p := f.repo.products[f.onions.String()]
	p.Price = 9900
	p.Name = "Premium Onions"
	f.repo.mu.Unlock()

	got, err := f.service.GetOrder(context.Background(), f.vendorID.String(), user.RoleVendor, o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Fresh Onions", got.Items[0].ProductName)
	assert.Equal(t, pricing.Paise(5000), got.Items[0].UnitPrice)
	assert.Equal(t, pricing.Paise(13650), got.Total)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.service.PlaceOrder(ctx, f.vendorID.String(), f.placeRequest())
	require.NoError(t, err)

	confirmed, err := f.service.UpdateStatus(ctx, f.supplierID.String(), o.ID.String(), UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	delivered, err := f.service.UpdateStatus(ctx, f.supplierID.String(), o.ID.String(), UpdateStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, delivered.Status)

	// Delivered is terminal.
	_, err = f.service.UpdateStatus(ctx, f.supplierID.String(), o.ID.String(), UpdateStatusRequest{Status: "cancelled"})
	asOrderError(t, err, CodeInvalidTransition)
}

func TestUpdateStatusRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.service.PlaceOrder(ctx, f.vendorID.String(), f.placeRequest())
	require.NoError(t, err)

	t.Run("skip a stage", func(t *testing.T) {
		_, err := f.service.UpdateStatus(ctx, f.supplierID.String(), o.ID.String(), UpdateStatusRequest{Status: "delivered"})
		asOrderError(t, err, CodeInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.service.UpdateStatus(ctx, f.supplierID.String(), o.ID.String(), UpdateStatusRequest{Status: "shipped"})
		asOrderError(t, err, CodeInvalidRequest)
	})

	t.Run("wrong supplier", func(t *testing.T) {
		_, err := f.service.UpdateStatus(ctx, uuid.NewString(), o.ID.String(), UpdateStatusRequest{Status: "confirmed"})
		asOrderError(t, err, CodeForbidden)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := f.service.UpdateStatus(ctx, f.supplierID.String(), uuid.NewString(), UpdateStatusRequest{Status: "confirmed"})
		asOrderError(t, err, CodeOrderNotFound)
	})
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.service.PlaceOrder(ctx, f.vendorID.String(), f.placeRequest())
	require.NoError(t, err)

	t.Run("another vendor cannot cancel", func(t *testing.T) {
		err := f.service.CancelOrder(ctx, uuid.NewString(), o.ID.String())
		asOrderError(t, err, CodeForbidden)
	})

	t.Run("vendor cancels pending", func(t *testing.T) {
		require.NoError(t, f.service.CancelOrder(ctx, f.vendorID.String(), o.ID.String()))
		got, err := f.service.GetOrder(ctx, f.vendorID.String(), user.RoleVendor, o.ID.String())
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		err := f.service.CancelOrder(ctx, f.vendorID.String(), o.ID.String())
		asOrderError(t, err, CodeInvalidTransition)
	})

	t.Run("cannot cancel after delivery", func(t *testing.T) {
		o2, err := f.service.PlaceOrder(ctx, f.vendorID.String(), f.placeRequest())
		require.NoError(t, err)
		_, err = f.service.UpdateStatus(ctx, f.supplierID.String(), o2.ID.String(), UpdateStatusRequest{Status: "confirmed"})
		require.NoError(t, err)
		_, err = f.service.UpdateStatus(ctx, f.supplierID.String(), o2.ID.String(), UpdateStatusRequest{Status: "delivered"})
		require.NoError(t, err)

		err = f.service.CancelOrder(ctx, f.vendorID.String(), o2.ID.String())
		asOrderError(t, err, CodeInvalidTransition)
	})
}

func TestOrderVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.service.PlaceOrder(ctx, f.vendorID.String(), f.placeRequest())
	require.NoError(t, err)

	_, err = f.service.GetOrder(ctx, f.vendorID.String(), user.RoleVendor, o.ID.String())
	assert.NoError(t, err)

	_, err = f.service.GetOrder(ctx, f.supplierID.String(), user.RoleSupplier, o.ID.String())
	assert.NoError(t, err)

	_, err = f.service.GetOrder(ctx, uuid.NewString(), user.RoleVendor, o.ID.String())
	asOrderError(t, err, CodeForbidden)

	vendorOrders, err := f.service.ListOrders(ctx, f.vendorID.String(), user.RoleVendor)
	require.NoError(t, err)
	assert.Len(t, vendorOrders, 1)

	strangerOrders, err := f.service.ListOrders(ctx, uuid.NewString(), user.RoleVendor)
	require.NoError(t, err)
	assert.Empty(t, strangerOrders)
}

func TestReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	users := &fakeUsers{byID: map[string]*user.User{
		f.vendorID.String(): {
			ID: f.vendorID, Name: "Ravi Kumar", Email: "ravi@chaatcorner.in",
			Phone: "+91 98765 43210", Address: "Stall 12, FC Road, Pune",
			BusinessName: "Ravi's Chaat Corner",
		},
		f.supplierID.String(): {
			ID: f.supplierID, Name: "Mohan Traders", Email: "sales@mohantraders.in",
			Phone: "+91 91234 56789", Address: "APMC Yard, Pune",
			BusinessName: "Mohan Traders", GSTNumber: "27AAPFM1234A1Z5",
		},
	}}
	f.service = NewService(f.repo, f.aggregator, users, nil, taxRateBps)

	o, err := f.service.PlaceOrder(ctx, f.vendorID.String(), f.placeRequest())
	require.NoError(t, err)

	receipt, err := f.service.Receipt(ctx, f.vendorID.String(), user.RoleVendor, o.ID.String())
	require.NoError(t, err)

	assert.Equal(t, o.ID, receipt.OrderID)
	assert.Len(t, receipt.InvoiceNumber, 8)
	assert.Equal(t, "INR", receipt.Currency)
	assert.Equal(t, "Mohan Traders", receipt.Supplier.Name)
	assert.Equal(t, "27AAPFM1234A1Z5", receipt.Supplier.GSTNumber)
	assert.Equal(t, "Ravi Kumar", receipt.Vendor.Name)
	assert.Equal(t, o.Subtotal, receipt.Subtotal)
	assert.Equal(t, o.Tax, receipt.Tax)
	assert.Equal(t, o.Total, receipt.Total)
	assert.Equal(t, taxRateBps, receipt.TaxRateBps)
	assert.Len(t, receipt.Items, 2)

	// Receipts follow order visibility.
	_, err = f.service.Receipt(ctx, uuid.NewString(), user.RoleVendor, o.ID.String())
	asOrderError(t, err, CodeForbidden)
}

func TestStatusStateMachine(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusDelivered, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("shipped").Valid())
}

func TestPlaceOrderTimestampsUTC(t *testing.T) {
	f := newFixture(t)
	before := time.Now().UTC()

	o, err := f.service.PlaceOrder(context.Background(), f.vendorID.String(), f.placeRequest())
	require.NoError(t, err)

	assert.False(t, o.CreatedAt.Before(before))
	assert.Equal(t, time.UTC, o.CreatedAt.Location())
	assert.Equal(t, o.CreatedAt, o.UpdatedAt)
}
