package domain

import (
	"context"
	"time"
)

// CheckoutClient is the REST backend holding cards, orders and transactions.
// Not-found conditions are returned as nil values, not errors.
type CheckoutClient interface {
	GetAccountOrders(ctx context.Context, account, token string, limit, offset int) (*OrdersPage, error)
	GetOrder(ctx context.Context, id int64) (*Order, error)
	GetOrdersByTxHash(ctx context.Context, txHash string) ([]Order, error)
	GetTransactions(ctx context.Context, account, contract string, limit, offset int) (*TransactionsPage, error)
	GetNewTransactions(ctx context.Context, account, contract string, from time.Time) ([]Transaction, error)
	GetTransaction(ctx context.Context, hash string) (*Transaction, error)
	GetCard(ctx context.Context, serial string) (*CardLookup, error)
}
