package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
)

func paise(v int64) pricing.Paise { return pricing.Paise(v) }

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetProductForOrder(ctx context.Context, productID string) (*ProductInfo, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}
	p := &ProductInfo{}
	var price int64
	err = r.db.QueryRowContext(ctx, `
		SELECT id, supplier_id, name, unit, price_paise, min_order_quantity, stock_quantity, is_active
		FROM products WHERE id=$1`, uid).Scan(
		&p.ID, &p.SupplierID, &p.Name, &p.Unit, &price,
		&p.MinOrderQuantity, &p.StockQuantity, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Price = paise(price)
	return p, nil
}

// CreateOrder runs the whole reservation in one transaction: each item's
// stock is decremented with a guard on remaining quantity, then the order and
// its items are inserted. Any shortage rolls the transaction back, so a
// partial decrement is never visible to other placements.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Decrement in product-id order so two carts sharing products cannot
	// deadlock on row locks taken in opposite order.
	items := make([]*OrderItem, len(o.Items))
	copy(items, o.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	for _, it := range items {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $2, updated_at = $3
			WHERE id = $1 AND stock_quantity >= $2`,
			it.ProductID, it.Quantity, time.Now())
		if err != nil {
			return fmt.Errorf("reserve stock: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			var available int
			err := tx.QueryRowContext(ctx,
				`SELECT stock_quantity FROM products WHERE id=$1`, it.ProductID).Scan(&available)
			if errors.Is(err, sql.ErrNoRows) {
				return errProductNotFound(it.ProductID.String())
			}
			if err != nil {
				return err
			}
			return errInsufficientStock(it.ProductID.String(), it.Quantity, available)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, vendor_id, supplier_id, client_request_id, delivery_address,
		   subtotal_paise, tax_paise, total_paise, tax_rate_bps, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.VendorID, o.SupplierID, nullableString(o.ClientRequestID), o.DeliveryAddress,
		int64(o.Subtotal), int64(o.Tax), int64(o.Total), o.TaxRateBps, o.Status,
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateRequest
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (order_id, position, product_id, product_name, unit, quantity, unit_price_paise, line_total_paise)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			o.ID, i, item.ProductID, item.ProductName, item.Unit,
			item.Quantity, int64(item.UnitPrice), int64(item.LineTotal))
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

const orderColumns = `id, vendor_id, supplier_id, client_request_id, delivery_address,
       subtotal_paise, tax_paise, total_paise, tax_rate_bps, status, created_at, updated_at`

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, uid))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) GetOrderByClientRequestID(ctx context.Context, clientRequestID string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE client_request_id=$1`, clientRequestID))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrdersByVendor(ctx context.Context, vendorID string) ([]*Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE vendor_id=$1 ORDER BY created_at DESC`, vendorID)
}

func (r *postgresRepo) ListOrdersBySupplier(ctx context.Context, supplierID string) ([]*Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE supplier_id=$1 ORDER BY created_at DESC`, supplierID)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4`,
		to, time.Now(), id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanOrder(row *sql.Row) (*Order, error) {
	o := &Order{}
	var clientRequestID sql.NullString
	var subtotal, tax, total int64
	err := row.Scan(
		&o.ID, &o.VendorID, &o.SupplierID, &clientRequestID, &o.DeliveryAddress,
		&subtotal, &tax, &total, &o.TaxRateBps, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.ClientRequestID = clientRequestID.String
	o.Subtotal, o.Tax, o.Total = paise(subtotal), paise(tax), paise(total)
	return o, nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o := &Order{}
		var clientRequestID sql.NullString
		var subtotal, tax, total int64
		if err := rows.Scan(
			&o.ID, &o.VendorID, &o.SupplierID, &clientRequestID, &o.DeliveryAddress,
			&subtotal, &tax, &total, &o.TaxRateBps, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.ClientRequestID = clientRequestID.String
		o.Subtotal, o.Tax, o.Total = paise(subtotal), paise(tax), paise(total)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Items, err = r.listItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, product_name, unit, quantity, unit_price_paise, line_total_paise
		FROM order_items WHERE order_id=$1 ORDER BY position ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		var unitPrice, lineTotal int64
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Unit,
			&item.Quantity, &unitPrice, &lineTotal); err != nil {
			return nil, err
		}
		item.UnitPrice, item.LineTotal = paise(unitPrice), paise(lineTotal)
		items = append(items, item)
	}
	return items, rows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
