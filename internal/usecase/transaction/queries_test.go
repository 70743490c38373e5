package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTransactionsHeuristicTotal(t *testing.T) {
	checkout := testutil.NewFakeCheckout()
	checkout.Transactions = testutil.Transactions(1, 10)
	uc := NewDefaultTransactionUsecase(checkout, nil, nil, Options{Limit: 10})
	ctx := context.Background()

	assert.True(t, uc.GetTransactions(ctx, "0xabc", "0xtoken", true))
	snap := uc.Store().Snapshot()
	require.NotNil(t, snap.Pagination)
	// no total from the backend, the page length stands in
	assert.Equal(t, 10, snap.Pagination.Total)

	// a full last page still says hasMore; the empty page that follows ends it
	assert.False(t, uc.GetTransactions(ctx, "0xabc", "0xtoken", false))
	assert.Equal(t, 10, uc.Store().Len())
	assert.False(t, uc.GetTransactions(ctx, "0xabc", "0xtoken", false))
	assert.Equal(t, 2, checkout.Calls("GetTransactions"))
}

func TestLoadTransactionsCacheWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	checkout := testutil.NewFakeCheckout()
	checkout.Transactions = testutil.Transactions(1, 30)
	uc := NewDefaultTransactionUsecase(checkout, nil, nil, Options{
		Limit: 10,
		Now:   func() time.Time { return now },
	})
	ctx := context.Background()

	uc.LoadTransactions(ctx, "0xabc", "0xtoken", false)
	uc.LoadTransactions(ctx, "0xabc", "0xtoken", false)
	assert.Equal(t, 1, checkout.Calls("GetTransactions"))

	// a different token is a different key
	uc.LoadTransactions(ctx, "0xabc", "0xother", false)
	assert.Equal(t, 2, checkout.Calls("GetTransactions"))

	now = now.Add(31 * time.Second)
	uc.LoadTransactions(ctx, "0xabc", "0xtoken", false)
	assert.Equal(t, 3, checkout.Calls("GetTransactions"))
}

func TestGetTransaction(t *testing.T) {
	checkout := testutil.NewFakeCheckout()
	checkout.Transactions = testutil.Transactions(1, 2)
	uc := NewDefaultTransactionUsecase(checkout, nil, nil, Options{})

	tx, err := uc.GetTransaction(context.Background(), checkout.Transactions[0].Hash)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", tx.ID)

	_, err = uc.GetTransaction(context.Background(), "0xmissing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}
