package service

import (
	"errors"
	"fmt"
)

var (
	ErrCartEmpty              = errors.New("cart is empty")
	ErrQuantityLimit          = errors.New("a cart may hold at most 5 units of a product")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrProductNotFound        = errors.New("product not found")
	ErrBillingIncomplete      = errors.New("billing address is incomplete")
	ErrOrderNotFound          = errors.New("order not found")
	ErrShareTokenInvalid      = errors.New("share link is invalid")
	ErrInvalidAmountPrecision = errors.New("amount must have at most two decimal places")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrOrderAlreadyPaid       = errors.New("order has already been paid")
	ErrWebhookSignature       = errors.New("invalid webhook signature")
)

// PaymentInitiationError means the gateway rejected or never received the
// initialize call. No ledger row exists, so the caller can simply retry.
type PaymentInitiationError struct {
	Detail string
	Err    error
}

func (e *PaymentInitiationError) Error() string {
	return fmt.Sprintf("payment initiation failed: %s", e.Detail)
}

func (e *PaymentInitiationError) Unwrap() error {
	return e.Err
}
