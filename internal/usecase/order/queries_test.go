package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newUsecase(checkout domain.CheckoutClient, c *clock) *DefaultOrderUsecase {
	return NewDefaultOrderUsecase(checkout, nil, nil, Options{Limit: 10, Now: c.Now})
}

func TestGetOrdersPaginates(t *testing.T) {
	checkout := testutil.NewFakeCheckout()
	checkout.Orders = testutil.Orders(1, 14)
	uc := newUsecase(checkout, &clock{now: time.Now()})
	ctx := context.Background()

	assert.True(t, uc.GetOrders(ctx, "0xabc", "0xtoken", true))
	assert.False(t, uc.GetOrders(ctx, "0xabc", "0xtoken", false))

	snap := uc.Store().Snapshot()
	assert.Len(t, snap.Items, 14)
	require.NotNil(t, snap.Pagination)
	assert.False(t, snap.Pagination.HasMore)
	assert.Equal(t, 10, snap.Pagination.Offset)
	// the backend reports a real total
	assert.Equal(t, 14, snap.Pagination.Total)

	assert.False(t, uc.GetOrders(ctx, "0xabc", "0xtoken", false))
	assert.Equal(t, 2, checkout.Calls("GetAccountOrders"))
}

func TestLoadOrdersCacheWindow(t *testing.T) {
	checkout := testutil.NewFakeCheckout()
	checkout.Orders = testutil.Orders(1, 25)
	c := &clock{now: time.Unix(1_700_000_000, 0)}
	uc := newUsecase(checkout, c)
	ctx := context.Background()

	uc.LoadOrders(ctx, "0xabc", "0xtoken", false)
	assert.Equal(t, 1, checkout.Calls("GetAccountOrders"))

	c.now = c.now.Add(10 * time.Second)
	uc.LoadOrders(ctx, "0xabc", "0xtoken", false)
	assert.Equal(t, 1, checkout.Calls("GetAccountOrders"))

	c.now = c.now.Add(21 * time.Second)
	uc.LoadOrders(ctx, "0xabc", "0xtoken", false)
	assert.Equal(t, 2, checkout.Calls("GetAccountOrders"))
	assert.Equal(t, 20, uc.Store().Len())

	// reset bypasses the window and starts over
	uc.LoadOrders(ctx, "0xabc", "0xtoken", true)
	assert.Equal(t, 3, checkout.Calls("GetAccountOrders"))
	assert.Equal(t, 10, uc.Store().Len())
}

func TestGetOrdersErrorIsStoreState(t *testing.T) {
	checkout := testutil.NewFakeCheckout()
	checkout.Orders = testutil.Orders(1, 10)
	uc := newUsecase(checkout, &clock{now: time.Now()})
	ctx := context.Background()

	require.True(t, uc.GetOrders(ctx, "0xabc", "", true))

	checkout.SetErr(errors.New("503 unavailable"))
	assert.False(t, uc.GetOrders(ctx, "0xabc", "", false))

	snap := uc.Store().Snapshot()
	assert.Equal(t, "503 unavailable", snap.Error)
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Items, 10)
}

func TestLoadOrderFromTxHashUpserts(t *testing.T) {
	checkout := testutil.NewFakeCheckout()
	checkout.Orders = testutil.Orders(1, 3)
	uc := newUsecase(checkout, &clock{now: time.Now()})
	ctx := context.Background()

	uc.GetOrders(ctx, "0xabc", "", true)
	require.Equal(t, 3, uc.Store().Len())

	checkout.Orders[1].Status = "refunded"
	uc.LoadOrderFromTxHash(ctx, checkout.Orders[1].TxHash, false)

	items := uc.Store().Items()
	require.Len(t, items, 3)
	assert.Equal(t, int64(2), items[1].ID)
	assert.True(t, items[1].IsRefunded())

	// throttled inside the window
	uc.LoadOrderFromTxHash(ctx, checkout.Orders[1].TxHash, false)
	assert.Equal(t, 1, checkout.Calls("GetOrdersByTxHash"))
}

func TestGetOrderNotFound(t *testing.T) {
	checkout := testutil.NewFakeCheckout()
	checkout.Orders = testutil.Orders(1, 2)
	uc := newUsecase(checkout, &clock{now: time.Now()})

	order, err := uc.GetOrder(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), order.ID)

	_, err = uc.GetOrder(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestClearResetsEverything(t *testing.T) {
	checkout := testutil.NewFakeCheckout()
	checkout.Orders = testutil.Orders(1, 10)
	uc := newUsecase(checkout, &clock{now: time.Now()})
	ctx := context.Background()

	uc.LoadOrders(ctx, "0xabc", "", false)
	uc.Clear()
	assert.Equal(t, 0, uc.Store().Len())

	uc.LoadOrders(ctx, "0xabc", "", false)
	assert.Equal(t, 2, checkout.Calls("GetAccountOrders"))
	assert.Equal(t, 10, uc.Store().Len())
}
