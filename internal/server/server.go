package server

import (
	"storefront-backend/internal/handler"
	"storefront-backend/internal/logger"
	"storefront-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	paymentHandler *handler.PaymentHandler
}

func NewServer(cartService service.CartService, orderService service.OrderService, paymentService service.PaymentService) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(requestIDIntoContext)
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		cartHandler:    handler.NewCartHandler(cartService),
		orderHandler:   handler.NewOrderHandler(orderService),
		paymentHandler: handler.NewPaymentHandler(paymentService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- cart --------
	api.POST("/cart", s.cartHandler.AddItem)
	api.GET("/cart", s.cartHandler.GetCart)
	api.PUT("/cart/items/:productID", s.cartHandler.UpdateItem)
	api.DELETE("/cart/items/:productID", s.cartHandler.RemoveItem)
	api.DELETE("/cart", s.cartHandler.Clear)

	// -------- orders --------
	api.POST("/orders", s.orderHandler.CreateOrder)
	api.GET("/orders", s.orderHandler.GetOrders)
	api.GET("/orders/:orderID", s.orderHandler.GetOrder)
	api.POST("/orders/:orderID/share-link", s.orderHandler.GenerateShareLink)
	api.GET("/orders/shared/:token", s.orderHandler.GetSharedOrder)

	// -------- payments / gateway callbacks --------
	payments := api.Group("/payments")
	payments.POST("/initiate", s.paymentHandler.Initiate)
	payments.GET("/verify", s.paymentHandler.Verify)
	payments.POST("/webhook", s.paymentHandler.Webhook)
	payments.GET("/status", s.paymentHandler.GetSettled)
	payments.GET("/users", s.paymentHandler.GetPaidUsers)
}

// requestIDIntoContext copies echo's request id into the request context so
// logger.FromCtx picks it up everywhere below the handler.
func requestIDIntoContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := c.Response().Header().Get(echo.HeaderXRequestID)
		if reqID != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), reqID)))
		}
		return next(c)
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
