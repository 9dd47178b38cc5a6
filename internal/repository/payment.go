package repository

import (
	"context"
	"storefront-backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
	FindByOrderID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Payment, error)
	FindByReference(ctx context.Context, tx *gorm.DB, reference string) (*model.Payment, error)
	Settle(ctx context.Context, tx *gorm.DB, reference string, status model.PaymentStatus) (bool, error)
	ListSettled(ctx context.Context) ([]*model.Payment, error)
	ListPaidUserEmails(ctx context.Context) ([]string, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{db: db}
}

// Upsert keeps one active payment per order: a retried initiation for the
// same order replaces the pending record's reference, amount and email
// instead of inserting a duplicate. Callers must guard against settled
// records first; the upsert itself overwrites whatever row is there.
func (r *paymentRepoImpl) Upsert(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"reference":  payment.Reference,
			"amount":     payment.Amount,
			"email":      payment.Email,
			"status":     payment.Status,
			"updated_at": time.Now(),
		}),
	}).Create(payment).Error
}

func (r *paymentRepoImpl) FindByOrderID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Payment, error) {
	if tx == nil {
		tx = r.db
	}

	var payment model.Payment
	err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) FindByReference(ctx context.Context, tx *gorm.DB, reference string) (*model.Payment, error) {
	if tx == nil {
		tx = r.db
	}

	var payment model.Payment
	err := tx.WithContext(ctx).
		Where("reference = ?", reference).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// Settle performs the conditional PENDING → terminal transition. It returns
// true only when this call performed the transition; a payment that is
// already terminal leaves zero rows affected and returns false, so two
// reconciliation attempts racing on the same reference cannot both win.
func (r *paymentRepoImpl) Settle(ctx context.Context, tx *gorm.DB, reference string, status model.PaymentStatus) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Payment{}).
		Where("reference = ? AND status = ?", reference, model.PaymentPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *paymentRepoImpl) ListSettled(ctx context.Context) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("status IN ?", []model.PaymentStatus{model.PaymentSuccess, model.PaymentFailed}).
		Order("updated_at DESC").
		Find(&payments).Error

	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepoImpl) ListPaidUserEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Distinct("email").
		Where("status = ?", model.PaymentSuccess).
		Pluck("email", &emails).Error

	if err != nil {
		return nil, err
	}

	return emails, nil
}
