//go:build integration
// +build integration

package orders_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haseeb1-1/final-grocery/internal/cart"
	"github.com/haseeb1-1/final-grocery/internal/orders"
	"github.com/haseeb1-1/final-grocery/internal/stores/postgres/postgrestest"
	"github.com/haseeb1-1/final-grocery/internal/users"
)

var checkoutReq = orders.CheckoutRequest{
	DeliveryAddress: "42 Main Street",
	Phone:           "555-0100",
	PaymentMethod:   "cod",
}

func newTestUser(t *testing.T, db *sql.DB, username string) string {
	t.Helper()
	uConf, err := users.NewConf(db)
	require.NoError(t, err)
	u, err := uConf.InsertUser(context.Background(), users.NewUser{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return u.ID
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := postgrestest.NewDB(t)
	oConf, err := orders.NewConf(db)
	require.NoError(t, err)

	userID := newTestUser(t, db, "alice")

	_, err = oConf.Checkout(context.Background(), userID, checkoutReq)
	assert.ErrorIs(t, err, orders.ErrEmptyCart)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count))
	assert.Zero(t, count, "a failed checkout must not leave order rows behind")
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM order_items`).Scan(&count))
	assert.Zero(t, count)
}

func TestCheckoutFreezesPricesAndClearsCart(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)
	oConf, err := orders.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	userID := newTestUser(t, db, "bob")
	apples := postgrestest.SeededProductID(t, db, "Organic Apples") // 499
	milk := postgrestest.SeededProductID(t, db, "Organic Milk")     // 599

	_, err = cConf.AddItem(ctx, userID, apples, 3)
	require.NoError(t, err)
	_, err = cConf.AddItem(ctx, userID, milk, 1)
	require.NoError(t, err)

	orderID, err := oConf.Checkout(ctx, userID, checkoutReq)
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	// cart is empty after a successful checkout
	count, err := cConf.Count(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	order, err := oConf.GetOrder(ctx, userID, orderID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPending, order.Status)
	assert.Equal(t, checkoutReq.DeliveryAddress, order.DeliveryAddress)
	require.Len(t, order.Items, 2)

	// the order total equals the item sum exactly
	var itemSum int64
	for _, item := range order.Items {
		itemSum += item.Price * int64(item.Quantity)
	}
	assert.Equal(t, order.TotalAmount, itemSum)
	assert.Equal(t, int64(3*499+599), order.TotalAmount)

	// later catalog price changes never touch the snapshot
	_, err = db.ExecContext(ctx, `UPDATE products SET price = 999 WHERE id = $1`, apples)
	require.NoError(t, err)

	order, err = oConf.GetOrder(ctx, userID, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(3*499+599), order.TotalAmount)
	for _, item := range order.Items {
		if item.ProductID == apples {
			assert.Equal(t, int64(499), item.Price)
		}
	}
}

func TestCheckoutTwiceNeedsNewCart(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)
	oConf, err := orders.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	userID := newTestUser(t, db, "carol")
	juice := postgrestest.SeededProductID(t, db, "Orange Juice")

	_, err = cConf.AddItem(ctx, userID, juice, 1)
	require.NoError(t, err)
	_, err = oConf.Checkout(ctx, userID, checkoutReq)
	require.NoError(t, err)

	_, err = oConf.Checkout(ctx, userID, checkoutReq)
	assert.ErrorIs(t, err, orders.ErrEmptyCart)
}

func TestListOrdersNewestFirst(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)
	oConf, err := orders.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	userID := newTestUser(t, db, "dave")
	bread := postgrestest.SeededProductID(t, db, "Whole Wheat Bread")

	_, err = cConf.AddItem(ctx, userID, bread, 1)
	require.NoError(t, err)
	firstID, err := oConf.Checkout(ctx, userID, checkoutReq)
	require.NoError(t, err)

	_, err = cConf.AddItem(ctx, userID, bread, 2)
	require.NoError(t, err)
	secondID, err := oConf.Checkout(ctx, userID, checkoutReq)
	require.NoError(t, err)

	list, err := oConf.ListOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, secondID, list[0].ID)
	assert.Equal(t, firstID, list[1].ID)
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, 2, list[0].Items[0].Quantity)
}

func TestGetOrderAuthorization(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)
	oConf, err := orders.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	ownerID := newTestUser(t, db, "erin")
	intruderID := newTestUser(t, db, "frank")
	salmon := postgrestest.SeededProductID(t, db, "Salmon Fillet")

	_, err = cConf.AddItem(ctx, ownerID, salmon, 1)
	require.NoError(t, err)
	orderID, err := oConf.Checkout(ctx, ownerID, checkoutReq)
	require.NoError(t, err)

	_, err = oConf.GetOrder(ctx, intruderID, orderID)
	assert.ErrorIs(t, err, orders.ErrUnauthorized)

	_, err = oConf.GetOrder(ctx, ownerID, "11111111-1111-1111-1111-111111111111")
	assert.ErrorIs(t, err, orders.ErrNotFound)
}
