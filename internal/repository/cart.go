package repository

import (
	"context"
	"storefront-backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CartRepository interface {
	FindOrCreate(ctx context.Context, userID string) (*model.Cart, error)
	FindByUserID(ctx context.Context, tx *gorm.DB, userID string) (*model.Cart, error)
	ItemsWithProducts(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error)
	FindItem(ctx context.Context, cartID, productID uint) (*model.CartItem, error)
	SaveItem(ctx context.Context, item *model.CartItem) error
	IncrementItemQuantity(ctx context.Context, cartID, productID uint, delta, max int) (bool, error)
	RemoveItem(ctx context.Context, cartID, productID uint) error
	ClearItems(ctx context.Context, tx *gorm.DB, cartID uint) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) FindOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Where(model.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindByUserID(ctx context.Context, tx *gorm.DB, userID string) (*model.Cart, error) {
	if tx == nil {
		tx = r.db
	}

	var cart model.Cart
	err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

// ItemsWithProducts loads the cart's items joined with each item's current
// product row, so callers always price against the live catalog.
func (r *cartRepoImpl) ItemsWithProducts(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error) {
	if tx == nil {
		tx = r.db
	}

	var items []*model.CartItem
	err := tx.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) FindItem(ctx context.Context, cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) SaveItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// IncrementItemQuantity bumps an existing line's quantity with the ceiling
// enforced in the update's predicate, so two concurrent adds cannot stack
// past max. Returns false when no row matched: either the line does not
// exist yet or the bump would exceed the ceiling.
func (r *cartRepoImpl) IncrementItemQuantity(ctx context.Context, cartID, productID uint, delta, max int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ? AND product_id = ? AND quantity + ? <= ?", cartID, productID, delta, max).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *cartRepoImpl) RemoveItem(ctx context.Context, cartID, productID uint) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{}).Error
}

// ClearItems deletes the cart's items but keeps the cart row for the next
// shopping session.
func (r *cartRepoImpl) ClearItems(ctx context.Context, tx *gorm.DB, cartID uint) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
}
