package repository

import (
	"context"
	"storefront-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	SuggestByCategories(ctx context.Context, categories []string, excludeIDs []uint, limit int) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

// Seed inserts a small dev catalog. The catalog itself is owned by an
// external service; this keeps local runs usable.
func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: 1, Name: "Mechanical Keyboard", Category: "peripherals", Price: 100, DiscountPct: 10},
		{ID: 2, Name: "Wireless Mouse", Category: "peripherals", Price: 45, DiscountPct: 0},
		{ID: 3, Name: "USB-C Dock", Category: "accessories", Price: 180, DiscountPct: 5},
		{ID: 4, Name: "Laptop Stand", Category: "accessories", Price: 60, DiscountPct: 0},
		{ID: 5, Name: "Webcam", Category: "peripherals", Price: 80, DiscountPct: 15},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

// SuggestByCategories returns products from the given categories that are
// not already in the cart.
func (r *productRepoImpl) SuggestByCategories(ctx context.Context, categories []string, excludeIDs []uint, limit int) ([]*model.Product, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	var products []*model.Product
	query := r.db.WithContext(ctx).
		Where("category IN ?", categories).
		Limit(limit)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}
