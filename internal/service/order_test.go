package service

import (
	"context"
	"strings"
	"testing"

	"storefront-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_CreateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Keyboard", "peripherals", 100, 10)

	require.NoError(t, env.carts.AddItem(ctx, "u1", product.ID, 2))

	order, err := env.orders.CreateOrder(ctx, "u1", testBilling())
	require.NoError(t, err)

	assert.Equal(t, model.OrderProcessing, order.Status)
	assert.InDelta(t, 200.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 20.0, order.Discount, 1e-9)
	assert.InDelta(t, 13.5, order.VAT, 1e-9)
	assert.InDelta(t, 193.5, order.Total, 1e-9)

	require.Len(t, order.Items, 1)
	assert.Equal(t, product.ID, order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.InDelta(t, 100.0, order.Items[0].Price, 1e-9)

	require.NotNil(t, order.Billing)
	assert.Equal(t, "ada@example.com", order.Billing.Email)

	// the cart is NOT cleared on order creation; only payment success does
	assert.EqualValues(t, 1, env.cartItemCount(t, "u1"))
}

func TestOrderService_CreateOrder_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// no cart at all
	_, err := env.orders.CreateOrder(ctx, "u1", testBilling())
	assert.ErrorIs(t, err, ErrCartEmpty)

	// a cart that exists but has zero items
	product := env.createProduct(t, "Keyboard", "peripherals", 100, 0)
	require.NoError(t, env.carts.AddItem(ctx, "u2", product.ID, 1))
	require.NoError(t, env.carts.Clear(ctx, "u2"))

	_, err = env.orders.CreateOrder(ctx, "u2", testBilling())
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestOrderService_CreateOrder_BillingValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Keyboard", "peripherals", 100, 0)
	require.NoError(t, env.carts.AddItem(ctx, "u1", product.ID, 1))

	billing := testBilling()
	billing.Email = ""
	_, err := env.orders.CreateOrder(ctx, "u1", billing)
	assert.ErrorIs(t, err, ErrBillingIncomplete)

	// company and note stay optional
	billing = testBilling()
	billing.Company = ""
	billing.Note = ""
	_, err = env.orders.CreateOrder(ctx, "u1", billing)
	assert.NoError(t, err)
}

func TestOrderService_Materialization_AllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Keyboard", "peripherals", 100, 0)
	require.NoError(t, env.carts.AddItem(ctx, "u1", product.ID, 1))

	// force the last insert of the transaction to fail
	require.NoError(t, env.db.Migrator().DropTable(&model.BillingAddress{}))

	_, err := env.orders.CreateOrder(ctx, "u1", testBilling())
	require.Error(t, err)

	var orders, items int64
	require.NoError(t, env.db.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, env.db.Model(&model.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderService_PriceSnapshotImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Keyboard", "peripherals", 100, 0)
	require.NoError(t, env.carts.AddItem(ctx, "u1", product.ID, 1))

	order, err := env.orders.CreateOrder(ctx, "u1", testBilling())
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Update("price", 150).Error)

	reloaded, err := env.orders.GetOrderByID(ctx, "u1", order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.InDelta(t, 100.0, reloaded.Items[0].Price, 1e-9)
}

func TestOrderService_GetOrderByID_OwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Keyboard", "peripherals", 100, 0)
	require.NoError(t, env.carts.AddItem(ctx, "u1", product.ID, 1))

	order, err := env.orders.CreateOrder(ctx, "u1", testBilling())
	require.NoError(t, err)

	// another user's read is indistinguishable from not-found
	_, err = env.orders.GetOrderByID(ctx, "u2", order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = env.orders.GetOrderByID(ctx, "u1", order.ID+100)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetUsersOrders_ExcludesPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Keyboard", "peripherals", 100, 0)
	require.NoError(t, env.carts.AddItem(ctx, "u1", product.ID, 1))

	order, err := env.orders.CreateOrder(ctx, "u1", testBilling())
	require.NoError(t, err)

	pending := &model.Order{UserID: "u1", Status: model.OrderPending, Total: 10}
	require.NoError(t, env.db.Create(pending).Error)

	orders, err := env.orders.GetUsersOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestOrderService_ShareLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.createProduct(t, "Keyboard", "peripherals", 100, 0)
	require.NoError(t, env.carts.AddItem(ctx, "u1", product.ID, 1))

	order, err := env.orders.CreateOrder(ctx, "u1", testBilling())
	require.NoError(t, err)

	url, err := env.orders.GenerateShareLink(ctx, "u1", order.ID)
	require.NoError(t, err)
	require.Contains(t, url, "/api/orders/shared/")

	// repeated generation reuses the token
	again, err := env.orders.GenerateShareLink(ctx, "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, url, again)

	token := url[strings.LastIndex(url, "/")+1:]
	shared, err := env.orders.GetOrderByShareToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, order.ID, shared.ID)

	_, err = env.orders.GetOrderByShareToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrShareTokenInvalid)

	// only the owner can mint a link
	_, err = env.orders.GenerateShareLink(ctx, "u2", order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
