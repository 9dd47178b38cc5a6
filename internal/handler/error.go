package handler

import (
	"errors"
	"net/http"
	"storefront-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// httpError maps service sentinels to HTTP statuses. Gateway error payloads
// are summarized, never forwarded verbatim.
func httpError(err error) error {
	var initErr *service.PaymentInitiationError
	if errors.As(err, &initErr) {
		return echo.NewHTTPError(http.StatusBadGateway, initErr.Detail)
	}

	switch {
	case errors.Is(err, service.ErrCartEmpty),
		errors.Is(err, service.ErrQuantityLimit),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrBillingIncomplete),
		errors.Is(err, service.ErrInvalidAmountPrecision):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrWebhookSignature):
		return echo.NewHTTPError(http.StatusUnauthorized, service.ErrWebhookSignature.Error())
	case errors.Is(err, service.ErrOrderAlreadyPaid):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrShareTokenInvalid),
		errors.Is(err, service.ErrPaymentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return err
	}
}

func userIDFromHeader(c echo.Context) (string, error) {
	userID := c.Request().Header.Get("X-User-Id")
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing X-User-Id header")
	}
	return userID, nil
}
