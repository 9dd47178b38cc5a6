package service

import (
	"context"
	"errors"
	"fmt"
	"storefront-backend/internal/dto"
	"storefront-backend/internal/logger"
	"storefront-backend/internal/model"
	"storefront-backend/internal/pricing"
	"storefront-backend/internal/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, billing *dto.BillingAddressRequest) (*model.Order, error)
	GetOrderByID(ctx context.Context, userID string, orderID uint) (*model.Order, error)
	GetUsersOrders(ctx context.Context, userID string) ([]*model.Order, error)
	GenerateShareLink(ctx context.Context, userID string, orderID uint) (string, error)
	GetOrderByShareToken(ctx context.Context, token string) (*model.Order, error)
}

type orderServiceImpl struct {
	db        *gorm.DB
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	baseURL   string
	txTimeout time.Duration
}

func NewOrderService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	baseURL string,
	txTimeout time.Duration,
) OrderService {
	return &orderServiceImpl{
		db:        db,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		baseURL:   baseURL,
		txTimeout: txTimeout,
	}
}

// CreateOrder drains the user's cart into an immutable order inside one
// bounded transaction: order row, per-line price snapshots and the billing
// address all materialize together or not at all. The cart itself is left
// untouched; it is cleared only after the payment settles.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID string, billing *dto.BillingAddressRequest) (*model.Order, error) {
	if err := validateBilling(billing); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.FindByUserID(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartEmpty
			}
			return fmt.Errorf("load cart: %w", err)
		}

		items, err := s.cartRepo.ItemsWithProducts(ctx, tx, cart.ID)
		if err != nil {
			return fmt.Errorf("load cart items: %w", err)
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		priceLines := make([]pricing.Line, len(items))
		for i, item := range items {
			priceLines[i] = pricing.Line{
				Price:       item.Product.Price,
				DiscountPct: item.Product.DiscountPct,
				Quantity:    item.Quantity,
			}
		}
		totals := pricing.Compute(priceLines)

		order = &model.Order{
			UserID:   userID,
			Status:   model.OrderProcessing,
			Subtotal: totals.Subtotal,
			Discount: totals.Discount,
			VAT:      totals.VAT,
			Total:    totals.Total,
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		orderItems := make([]*model.OrderItem, len(items))
		for i, item := range items {
			orderItems[i] = &model.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			}
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		address := &model.BillingAddress{
			OrderID:  order.ID,
			UserID:   userID,
			FullName: billing.FullName,
			LastName: billing.LastName,
			Company:  billing.Company,
			Country:  billing.Country,
			State:    billing.State,
			Zip:      billing.Zip,
			Phone:    billing.Phone,
			Email:    billing.Email,
			Address:  billing.Address,
			Note:     billing.Note,
		}
		if err := s.orderRepo.CreateBillingAddress(ctx, tx, address); err != nil {
			return fmt.Errorf("store billing address: %w", err)
		}

		order.Items = make([]model.OrderItem, len(orderItems))
		for i, item := range orderItems {
			order.Items[i] = *item
		}
		order.Billing = address

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order created",
		zap.String("user_id", userID),
		zap.Uint("order_id", order.ID),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

// GetOrderByID is owner scoped. A foreign order reads the same as a missing
// one so existence never leaks.
func (s *orderServiceImpl) GetOrderByID(ctx context.Context, userID string, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderServiceImpl) GetUsersOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// GenerateShareLink returns a link granting read access to the order without
// authentication. The token is the sole authorization for that path, so it
// has to be unguessable; an existing token is reused.
func (s *orderServiceImpl) GenerateShareLink(ctx context.Context, userID string, orderID uint) (string, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOrderNotFound
		}
		return "", err
	}

	token := ""
	if order.ShareToken != nil {
		token = *order.ShareToken
	} else {
		token = uuid.NewString()
		if err := s.orderRepo.SetShareToken(ctx, order.ID, token); err != nil {
			return "", fmt.Errorf("store share token: %w", err)
		}
	}

	return fmt.Sprintf("%s/api/orders/shared/%s", s.baseURL, token), nil
}

func (s *orderServiceImpl) GetOrderByShareToken(ctx context.Context, token string) (*model.Order, error) {
	if token == "" {
		return nil, ErrShareTokenInvalid
	}

	order, err := s.orderRepo.FindByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShareTokenInvalid
		}
		return nil, err
	}
	return order, nil
}

func validateBilling(billing *dto.BillingAddressRequest) error {
	if billing == nil {
		return ErrBillingIncomplete
	}
	required := []string{
		billing.FullName,
		billing.LastName,
		billing.Country,
		billing.State,
		billing.Zip,
		billing.Phone,
		billing.Email,
		billing.Address,
	}
	for _, field := range required {
		if field == "" {
			return ErrBillingIncomplete
		}
	}
	return nil
}
