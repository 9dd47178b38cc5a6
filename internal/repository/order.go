package repository

import (
	"context"
	"storefront-backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	CreateBillingAddress(ctx context.Context, tx *gorm.DB, billing *model.BillingAddress) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error)
	FindByIDForUser(ctx context.Context, orderID uint, userID string) (*model.Order, error)
	FindByShareToken(ctx context.Context, token string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	SetShareToken(ctx context.Context, orderID uint, token string) error
	MarkConfirmed(ctx context.Context, tx *gorm.DB, orderID uint) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) CreateBillingAddress(ctx context.Context, tx *gorm.DB, billing *model.BillingAddress) error {
	return tx.WithContext(ctx).Create(billing).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error) {
	if tx == nil {
		tx = r.db
	}

	var order model.Order
	err := tx.WithContext(ctx).
		Preload("Items").
		Preload("Billing").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIDForUser(ctx context.Context, orderID uint, userID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Billing").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByShareToken(ctx context.Context, token string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Billing").
		Where("share_token = ?", token).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ListByUser returns the user's orders, newest first. PENDING orders are
// never part of the visible history.
func (r *orderRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND status <> ?", userID, model.OrderPending).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) SetShareToken(ctx context.Context, orderID uint, token string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"share_token": token,
			"updated_at":  time.Now(),
		}).Error
}

// MarkConfirmed advances PROCESSING → CONFIRMED. The status guard keeps the
// advancement monotonic: a confirmed, cancelled or refunded order is left
// alone.
func (r *orderRepoImpl) MarkConfirmed(ctx context.Context, tx *gorm.DB, orderID uint) error {
	return tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderProcessing).
		Updates(map[string]interface{}{
			"status":     model.OrderConfirmed,
			"updated_at": time.Now(),
		}).Error
}
