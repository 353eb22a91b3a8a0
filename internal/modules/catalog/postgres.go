package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/streetmandi/mandi-backend/internal/modules/pricing"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id, supplier_id, name, description, category, price_paise,
       unit, min_order_quantity, stock_quantity, is_active, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, supplier_id, name, description, category, price_paise,
		   unit, min_order_quantity, stock_quantity, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.SupplierID, p.Name, p.Description, p.Category, int64(p.Price),
		p.Unit, p.MinOrderQuantity, p.StockQuantity, p.IsActive)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, uid))
}

func (r *postgresRepo) Replace(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, category=$3, price_paise=$4, unit=$5,
		    min_order_quantity=$6, stock_quantity=$7, is_active=$8, updated_at=$9
		WHERE id=$10`,
		p.Name, p.Description, p.Category, int64(p.Price), p.Unit,
		p.MinOrderQuantity, p.StockQuantity, p.IsActive, time.Now(), p.ID)
	return err
}

func (r *postgresRepo) List(ctx context.Context, category Category, activeOnly bool) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	if category != "" {
		args = append(args, category)
		query += ` AND category=$1`
	}
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p := &Product{}
		var price int64
		if err := rows.Scan(
			&p.ID, &p.SupplierID, &p.Name, &p.Description, &p.Category, &price,
			&p.Unit, &p.MinOrderQuantity, &p.StockQuantity, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Price = pricing.Paise(price)
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(row *sql.Row) (*Product, error) {
	p := &Product{}
	var price int64
	err := row.Scan(
		&p.ID, &p.SupplierID, &p.Name, &p.Description, &p.Category, &price,
		&p.Unit, &p.MinOrderQuantity, &p.StockQuantity, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Price = pricing.Paise(price)
	return p, nil
}
