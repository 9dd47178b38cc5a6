package service

import (
	"context"
	"fmt"
	"storefront-backend/internal/client"
	"storefront-backend/internal/dto"
	"storefront-backend/internal/model"
	"storefront-backend/internal/repository"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.Migrate(db))
	return db
}

type fakeGateway struct {
	initErr      error
	verifyErr    error
	sigErr       error
	verifyStatus string
	initCalls    int
	lastInit     *client.InitializeRequest
}

func (f *fakeGateway) InitializeTransaction(ctx context.Context, req *client.InitializeRequest) (*model.GatewayInitializeData, error) {
	f.initCalls++
	f.lastInit = req
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &model.GatewayInitializeData{
		AuthorizationURL: "https://gateway.test/checkout/" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (f *fakeGateway) VerifyTransaction(ctx context.Context, reference string) (*model.GatewayVerifyData, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &model.GatewayVerifyData{Status: f.verifyStatus, Reference: reference}, nil
}

func (f *fakeGateway) VerifyWebhookSignature(signature string, body []byte) error {
	return f.sigErr
}

type testEnv struct {
	db          *gorm.DB
	gateway     *fakeGateway
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	carts       CartService
	orders      OrderService
	payments    PaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	gateway := &fakeGateway{verifyStatus: "success"}

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	return &testEnv{
		db:          db,
		gateway:     gateway,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		carts:       NewCartService(cartRepo, productRepo),
		orders:      NewOrderService(db, cartRepo, orderRepo, "http://localhost:8080", 10*time.Second),
		payments:    NewPaymentService(db, gateway, cartRepo, orderRepo, paymentRepo, ""),
	}
}

func (e *testEnv) createProduct(t *testing.T, name, category string, price, discountPct float64) *model.Product {
	t.Helper()

	product := &model.Product{Name: name, Category: category, Price: price, DiscountPct: discountPct}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *testEnv) cartItemCount(t *testing.T, userID string) int64 {
	t.Helper()

	cart, err := e.cartRepo.FindByUserID(context.Background(), nil, userID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, e.db.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	return count
}

func testBilling() *dto.BillingAddressRequest {
	return &dto.BillingAddressRequest{
		FullName: "Ada",
		LastName: "Lovelace",
		Country:  "NG",
		State:    "Lagos",
		Zip:      "100001",
		Phone:    "+2348000000000",
		Email:    "ada@example.com",
		Address:  "1 Analytical Engine Way",
	}
}
