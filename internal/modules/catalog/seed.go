package catalog

import (
	"context"

	"github.com/google/uuid"
)

// sampleProducts mirrors the demo catalog suppliers get when onboarding.
var sampleProducts = []ProductRequest{
	{Name: "Fresh Apples", Description: "Premium quality red apples", Price: 12000, Unit: "kg", Category: CategoryFruits, MinOrderQuantity: 5, StockQuantity: 100},
	{Name: "Bananas", Description: "Fresh yellow bananas", Price: 6000, Unit: "kg", Category: CategoryFruits, MinOrderQuantity: 10, StockQuantity: 150},
	{Name: "Mangoes", Description: "Sweet alphonso mangoes", Price: 20000, Unit: "kg", Category: CategoryFruits, MinOrderQuantity: 3, StockQuantity: 50},
	{Name: "Fresh Tomatoes", Description: "Premium quality fresh tomatoes", Price: 4500, Unit: "kg", Category: CategoryVegetables, MinOrderQuantity: 5, StockQuantity: 200},
	{Name: "Onions", Description: "Fresh red onions", Price: 3500, Unit: "kg", Category: CategoryVegetables, MinOrderQuantity: 10, StockQuantity: 300},
	{Name: "Potatoes", Description: "Fresh potatoes", Price: 2500, Unit: "kg", Category: CategoryVegetables, MinOrderQuantity: 10, StockQuantity: 500},
	{Name: "Turmeric Powder", Description: "Pure turmeric powder", Price: 20000, Unit: "kg", Category: CategorySpices, MinOrderQuantity: 1, StockQuantity: 30},
	{Name: "Garam Masala", Description: "Authentic garam masala blend", Price: 50000, Unit: "kg", Category: CategorySpices, MinOrderQuantity: 1, StockQuantity: 15},
	{Name: "Fresh Milk", Description: "Pure cow milk", Price: 5500, Unit: "liters", Category: CategoryDairy, MinOrderQuantity: 10, StockQuantity: 100},
	{Name: "Paneer", Description: "Fresh cottage cheese", Price: 25000, Unit: "kg", Category: CategoryDairy, MinOrderQuantity: 2, StockQuantity: 40},
	{Name: "Basmati Rice", Description: "Premium basmati rice", Price: 12000, Unit: "kg", Category: CategoryGrains, MinOrderQuantity: 10, StockQuantity: 200},
	{Name: "Wheat Flour", Description: "Fresh wheat flour", Price: 4500, Unit: "kg", Category: CategoryGrains, MinOrderQuantity: 20, StockQuantity: 500},
	{Name: "Coconut Water", Description: "Fresh coconut water", Price: 4000, Unit: "liters", Category: CategoryBeverages, MinOrderQuantity: 10, StockQuantity: 80},
	{Name: "Bread", Description: "Fresh bread loaves", Price: 3500, Unit: "pieces", Category: CategoryBakery, MinOrderQuantity: 10, StockQuantity: 100},
	{Name: "Sunflower Oil", Description: "Pure sunflower oil", Price: 15000, Unit: "liters", Category: CategoryOils, MinOrderQuantity: 5, StockQuantity: 60},
	{Name: "Frozen Vegetables", Description: "Mixed frozen vegetables", Price: 10000, Unit: "kg", Category: CategoryFrozen, MinOrderQuantity: 5, StockQuantity: 80},
	{Name: "Paper Plates", Description: "Disposable paper plates", Price: 200, Unit: "pieces", Category: CategoryDisposables, MinOrderQuantity: 100, StockQuantity: 1000},
	{Name: "Food Containers", Description: "Takeaway food containers", Price: 800, Unit: "pieces", Category: CategoryDisposables, MinOrderQuantity: 50, StockQuantity: 500},
}

// SeedSampleData inserts the sample catalog under the given supplier and
// returns the number of products created.
func (s *service) SeedSampleData(ctx context.Context, supplierID string) (int, error) {
	sid, err := uuid.Parse(supplierID)
	if err != nil {
		return 0, err
	}
	for i, req := range sampleProducts {
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
			return i, err
		}
	}
	return len(sampleProducts), nil
}
