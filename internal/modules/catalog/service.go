package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, supplierID string, req ProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, category Category, activeOnly bool) ([]*Product, error)
	ReplaceProduct(ctx context.Context, supplierID, id string, req ProductRequest) (*Product, error)
	SeedSampleData(ctx context.Context, supplierID string) (int, error)
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, supplierID string, req ProductRequest) (*Product, error) {
	sid, err := uuid.Parse(supplierID)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier id: %w", err)
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	p := &Product{
		ID:               uuid.New(),
		SupplierID:       sid,
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		Price:            req.Price,
		Unit:             req.Unit,
		MinOrderQuantity: req.MinOrderQuantity,
		StockQuantity:    req.StockQuantity,
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, category Category, activeOnly bool) ([]*Product, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return s.repo.List(ctx, category, activeOnly)
}

func (s *service) ReplaceProduct(ctx context.Context, supplierID, id string, req ProductRequest) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	if p.SupplierID.String() != supplierID {
		return nil, fmt.Errorf("product belongs to another supplier")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	p.Name = req.Name
	p.Description = req.Description
	p.Category = req.Category
	p.Price = req.Price
	p.Unit = req.Unit
	p.MinOrderQuantity = req.MinOrderQuantity
	p.StockQuantity = req.StockQuantity
	if err := s.repo.Replace(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func validate(req ProductRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !req.Category.Valid() {
		return fmt.Errorf("unknown category %q", req.Category)
	}
	if req.Price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if req.Unit == "" {
		return fmt.Errorf("unit is required")
	}
	if req.MinOrderQuantity <= 0 {
		return fmt.Errorf("min_order_quantity must be positive")
	}
	if req.StockQuantity < 0 {
		return fmt.Errorf("stock_quantity must not be negative")
	}
	return nil
}
