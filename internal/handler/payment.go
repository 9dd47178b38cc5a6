package handler

import (
	"io"
	"net/http"
	"storefront-backend/internal/dto"
	"storefront-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// signatureHeader carries the gateway's HMAC of the webhook body.
const signatureHeader = "X-Gateway-Signature"

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) Initiate(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.paymentService.Initiate(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	reference := c.QueryParam("reference")
	if reference == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing reference")
	}

	verified, err := h.paymentService.Verify(ctx, reference)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.VerifyPaymentResponse{Verified: verified})
}

// Webhook answers 200 for anything the service absorbed, including
// already-settled no-ops, so the gateway does not keep retrying. Genuine
// processing failures return non-200 and the gateway redelivers.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	signature := c.Request().Header.Get(signatureHeader)
	if err := h.paymentService.HandleWebhook(ctx, signature, body); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusOK)
}

func (h *PaymentHandler) GetSettled(c echo.Context) error {
	ctx := c.Request().Context()

	payments, err := h.paymentService.ListSettled(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) GetPaidUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.paymentService.ListPaidUsers(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, users)
}
