package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"storefront-backend/internal/client"
	"storefront-backend/internal/dto"
	"storefront-backend/internal/logger"
	"storefront-backend/internal/model"
	"storefront-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService interface {
	Initiate(ctx context.Context, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error)
	Verify(ctx context.Context, reference string) (bool, error)
	HandleWebhook(ctx context.Context, signature string, body []byte) error
	ListSettled(ctx context.Context) ([]*model.Payment, error)
	ListPaidUsers(ctx context.Context) ([]string, error)
}

type paymentServiceImpl struct {
	db          *gorm.DB
	gateway     client.PaymentGateway
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	callbackURL string
}

func NewPaymentService(
	db *gorm.DB,
	gateway client.PaymentGateway,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	callbackURL string,
) PaymentService {
	return &paymentServiceImpl{
		db:          db,
		gateway:     gateway,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		callbackURL: callbackURL,
	}
}

// Initiate opens a gateway transaction for the order and records a PENDING
// ledger row. The row is upserted by order id, so retrying after a gateway
// timeout updates the pending record instead of stacking duplicates. A
// failed gateway call writes nothing. A payment that already settled
// successfully can never be reopened: the terminal record stays in the
// ledger and the order is not payable again.
func (s *paymentServiceImpl) Initiate(ctx context.Context, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	amount := decimal.NewFromFloat(req.Amount)
	if amount.LessThanOrEqual(decimal.Zero) || !amount.Equal(amount.Round(2)) {
		return nil, ErrInvalidAmountPrecision
	}

	if _, err := s.orderRepo.FindByID(ctx, nil, req.OrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// cheap pre-check before opening a remote transaction; the authoritative
	// guard runs again inside the upsert transaction below
	if err := s.rejectSettledOrder(ctx, nil, req.OrderID); err != nil {
		return nil, err
	}

	data, err := s.gateway.InitializeTransaction(ctx, &client.InitializeRequest{
		AmountMinor: amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Email:       req.Email,
		Reference:   uuid.NewString(),
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		return nil, &PaymentInitiationError{Detail: "gateway rejected or unreachable", Err: err}
	}

	payment := &model.Payment{
		OrderID:   req.OrderID,
		Reference: data.Reference,
		Amount:    req.Amount,
		Email:     req.Email,
		Status:    model.PaymentPending,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// re-check inside the transaction: a webhook settling the payment
		// while the gateway call was in flight must not be overwritten
		if err := s.rejectSettledOrder(ctx, tx, req.OrderID); err != nil {
			return err
		}
		return s.paymentRepo.Upsert(ctx, tx, payment)
	})
	if err != nil {
		if errors.Is(err, ErrOrderAlreadyPaid) {
			return nil, err
		}
		return nil, fmt.Errorf("store payment: %w", err)
	}

	logger.FromCtx(ctx).Info("payment initiated",
		zap.Uint("order_id", req.OrderID),
		zap.String("reference", data.Reference),
	)
	return &dto.InitiatePaymentResponse{
		AuthorizationURL: data.AuthorizationURL,
		Reference:        data.Reference,
	}, nil
}

// rejectSettledOrder refuses initiation for an order whose payment already
// succeeded. A FAILED payment is a finished attempt, not a paid order, so
// re-initiation replaces it with a fresh pending record.
func (s *paymentServiceImpl) rejectSettledOrder(ctx context.Context, tx *gorm.DB, orderID uint) error {
	existing, err := s.paymentRepo.FindByOrderID(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("load payment: %w", err)
	}
	if existing.Status == model.PaymentSuccess {
		return ErrOrderAlreadyPaid
	}
	return nil
}

// Verify polls the gateway for the transaction's outcome. A failed gateway
// call is reported as not-verified rather than an error: the payment stays
// PENDING and a later verify or webhook settles it. The system never marks
// a payment successful without explicit gateway confirmation.
func (s *paymentServiceImpl) Verify(ctx context.Context, reference string) (bool, error) {
	log := logger.FromCtx(ctx).With(zap.String("reference", reference))

	data, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		log.Warn("gateway verify failed, payment left pending", zap.Error(err))
		return false, nil
	}

	switch data.Status {
	case "success":
		if err := s.settle(ctx, reference, true); err != nil {
			return false, err
		}
		return true, nil
	case "failed":
		if err := s.settle(ctx, reference, false); err != nil {
			return false, err
		}
		return false, nil
	default:
		log.Info("transaction not settled yet", zap.String("status", data.Status))
		return false, nil
	}
}

// HandleWebhook applies a gateway-pushed settlement event. Deliveries may
// repeat and may race a concurrent verify poll; settle makes that safe.
func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, signature string, body []byte) error {
	if err := s.gateway.VerifyWebhookSignature(signature, body); err != nil {
		return fmt.Errorf("%w: %s", ErrWebhookSignature, err)
	}

	var event model.GatewayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode webhook payload: %w", err)
	}

	switch event.Event {
	case model.EventChargeSuccess:
		return s.settle(ctx, event.Data.Reference, true)
	case model.EventChargeFailed:
		return s.settle(ctx, event.Data.Reference, false)
	default:
		logger.FromCtx(ctx).Debug("ignoring webhook event", zap.String("event", event.Event))
		return nil
	}
}

// settle is the reconciliation core. The conditional PENDING → terminal
// update and the post-payment side effects run in one transaction: of any
// number of concurrent signals for the same reference exactly one performs
// the transition; the rest observe an already-terminal payment and do
// nothing. Side effects fire only on the winning PENDING → SUCCESS
// transition: the order is confirmed first, then the cart's items are
// deleted (the cart row survives, empty).
func (s *paymentServiceImpl) settle(ctx context.Context, reference string, success bool) error {
	status := model.PaymentFailed
	if success {
		status = model.PaymentSuccess
	}
	log := logger.FromCtx(ctx).With(
		zap.String("reference", reference),
		zap.String("status", string(status)),
	)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transitioned, err := s.paymentRepo.Settle(ctx, tx, reference, status)
		if err != nil {
			return fmt.Errorf("settle payment: %w", err)
		}

		if !transitioned {
			payment, err := s.paymentRepo.FindByReference(ctx, tx, reference)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPaymentNotFound
				}
				return fmt.Errorf("load payment: %w", err)
			}
			if !payment.Status.Terminal() {
				return fmt.Errorf("payment %s did not transition yet is not terminal (status %s)",
					reference, payment.Status)
			}
			log.Info("payment already settled, skipping",
				zap.String("current_status", string(payment.Status)))
			return nil
		}

		if !success {
			log.Info("payment marked failed")
			return nil
		}

		payment, err := s.paymentRepo.FindByReference(ctx, tx, reference)
		if err != nil {
			return fmt.Errorf("load payment: %w", err)
		}

		order, err := s.orderRepo.FindByID(ctx, tx, payment.OrderID)
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}

		if err := s.orderRepo.MarkConfirmed(ctx, tx, order.ID); err != nil {
			return fmt.Errorf("confirm order: %w", err)
		}

		cart, err := s.cartRepo.FindByUserID(ctx, tx, order.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("load cart: %w", err)
		}
		if err := s.cartRepo.ClearItems(ctx, tx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		log.Info("payment settled, order confirmed", zap.Uint("order_id", order.ID))
		return nil
	})
}

func (s *paymentServiceImpl) ListSettled(ctx context.Context) ([]*model.Payment, error) {
	return s.paymentRepo.ListSettled(ctx)
}

func (s *paymentServiceImpl) ListPaidUsers(ctx context.Context) ([]string, error) {
	return s.paymentRepo.ListPaidUserEmails(ctx)
}
