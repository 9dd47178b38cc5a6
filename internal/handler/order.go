package handler

import (
	"net/http"
	"storefront-backend/internal/dto"
	"storefront-backend/internal/service"
	"strconv"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.orderService.CreateOrder(ctx, userID, &req.BillingAddress)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.GetUsersOrders(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOrderByID(ctx, userID, orderID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GenerateShareLink(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromHeader(c)
	if err != nil {
		return err
	}

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	url, err := h.orderService.GenerateShareLink(ctx, userID, orderID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.ShareLinkResponse{URL: url})
}

// GetSharedOrder is the one unauthenticated order read; the token is the
// whole authorization.
func (h *OrderHandler) GetSharedOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetOrderByShareToken(ctx, c.Param("token"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func orderIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return uint(id), nil
}
