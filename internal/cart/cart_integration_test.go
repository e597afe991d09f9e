//go:build integration
// +build integration

package cart_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haseeb1-1/final-grocery/internal/cart"
	"github.com/haseeb1-1/final-grocery/internal/stores/postgres/postgrestest"
	"github.com/haseeb1-1/final-grocery/internal/users"
)

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

func TestAddItemAccumulatesOnOneLine(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	userID := newTestUser(t, db, "alice")
	productID := postgrestest.SeededProductID(t, db, "Organic Apples")

	count, err := cConf.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = cConf.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-adding the same product must not create a second line")

	resp, err := cConf.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)

	userID := newTestUser(t, db, "bob")
	productID := postgrestest.SeededProductID(t, db, "Organic Milk")

	_, err = cConf.AddItem(context.Background(), userID, productID, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = cConf.AddItem(context.Background(), userID, productID, -1)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)

	userID := newTestUser(t, db, "carol")

	_, err = cConf.AddItem(context.Background(), userID, "00000000-0000-0000-0000-000000000000", 1)
	assert.ErrorIs(t, err, cart.ErrProductNotFound)
}

func TestAdjustItemActions(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	userID := newTestUser(t, db, "dave")
	productID := postgrestest.SeededProductID(t, db, "Free Range Eggs")

	_, err = cConf.AddItem(ctx, userID, productID, 1)
	require.NoError(t, err)
	resp, err := cConf.GetCart(ctx, userID)
	require.NoError(t, err)
	lineID := resp.Items[0].ID
	price := resp.Items[0].Price

	// decrease at quantity 1 is a no-op, never a removal
	result, err := cConf.AdjustItem(ctx, userID, lineID, cart.ActionDecrease)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, price, result.Subtotal)

	result, err = cConf.AdjustItem(ctx, userID, lineID, cart.ActionIncrease)
	require.NoError(t, err)
	assert.Equal(t, price*2, result.Subtotal)

	result, err = cConf.AdjustItem(ctx, userID, lineID, cart.ActionDecrease)
	require.NoError(t, err)
	assert.Equal(t, price, result.Subtotal)

	result, err = cConf.AdjustItem(ctx, userID, lineID, cart.ActionRemove)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Zero(t, result.Subtotal)

	_, err = cConf.AdjustItem(ctx, userID, lineID, cart.ActionIncrease)
	assert.ErrorIs(t, err, cart.ErrNotFound)
}

func TestAdjustItemRejectsOtherUsersLine(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	ownerID := newTestUser(t, db, "erin")
	intruderID := newTestUser(t, db, "frank")
	productID := postgrestest.SeededProductID(t, db, "Orange Juice")

	_, err = cConf.AddItem(ctx, ownerID, productID, 1)
	require.NoError(t, err)
	resp, err := cConf.GetCart(ctx, ownerID)
	require.NoError(t, err)
	lineID := resp.Items[0].ID

	_, err = cConf.AdjustItem(ctx, intruderID, lineID, cart.ActionRemove)
	assert.ErrorIs(t, err, cart.ErrUnauthorized)

	// the line is untouched
	resp, err = cConf.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}

func TestGetCartTotalAtCurrentPrices(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	userID := newTestUser(t, db, "grace")
	apples := postgrestest.SeededProductID(t, db, "Organic Apples") // 499
	salmon := postgrestest.SeededProductID(t, db, "Salmon Fillet")  // 1299

	_, err = cConf.AddItem(ctx, userID, apples, 2)
	require.NoError(t, err)
	_, err = cConf.AddItem(ctx, userID, salmon, 1)
	require.NoError(t, err)

	resp, err := cConf.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2*499+1299), resp.Total)

	// the cart total follows the catalog until checkout freezes it
	_, err = db.ExecContext(ctx, `UPDATE products SET price = 599 WHERE id = $1`, apples)
	require.NoError(t, err)

	resp, err = cConf.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2*599+1299), resp.Total)
}

func TestConcurrentAddItemKeepsSingleLine(t *testing.T) {
	db := postgrestest.NewDB(t)
	cConf, err := cart.NewConf(db)
	require.NoError(t, err)
	ctx := context.Background()

	userID := newTestUser(t, db, "heidi")
	productID := postgrestest.SeededProductID(t, db, "Whole Wheat Bread")

	const workers = 2
	const addsPerWorker = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers*addsPerWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < addsPerWorker; i++ {
				if _, err := cConf.AddItem(ctx, userID, productID, 1); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent AddItem failed: %v", err)
	}

	resp, err := cConf.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1, "concurrent adds must never produce duplicate lines")
	assert.Equal(t, workers*addsPerWorker, resp.Items[0].Quantity)
}
