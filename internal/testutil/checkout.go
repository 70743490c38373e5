// Package testutil provides an in-memory checkout backend for tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
)

// FakeCheckout serves orders and transactions from memory and records calls.
type FakeCheckout struct {
	mu sync.Mutex

	Orders       []domain.Order
	Transactions []domain.Transaction
	NewTxs       []domain.Transaction
	Cards        map[string]*domain.CardLookup
	Err          error

	// NewTxsHook, when set, replaces NewTxs for GetNewTransactions.
	NewTxsHook func(ctx context.Context, from time.Time) ([]domain.Transaction, error)

	calls map[string]int
	froms []time.Time
}

func NewFakeCheckout() *FakeCheckout {
	return &FakeCheckout{
		Cards: make(map[string]*domain.CardLookup),
		calls: make(map[string]int),
	}
}

func (f *FakeCheckout) record(name string) {
	f.calls[name]++
}

// Calls returns how many times the named method was called.
func (f *FakeCheckout) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// PollFroms returns the watermarks sent to GetNewTransactions.
func (f *FakeCheckout) PollFroms() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.froms...)
}

func (f *FakeCheckout) SetNewTransactions(txs []domain.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.NewTxs = txs
}

func (f *FakeCheckout) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T{}, items[offset:end]...)
}

func (f *FakeCheckout) GetAccountOrders(_ context.Context, account, token string, limit, offset int) (*domain.OrdersPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetAccountOrders")
	if f.Err != nil {
		return nil, f.Err
	}
	return &domain.OrdersPage{Orders: window(f.Orders, limit, offset), Total: len(f.Orders)}, nil
}

func (f *FakeCheckout) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetOrder")
	if f.Err != nil {
		return nil, f.Err
	}
	for _, o := range f.Orders {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *FakeCheckout) GetOrdersByTxHash(_ context.Context, txHash string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetOrdersByTxHash")
	if f.Err != nil {
		return nil, f.Err
	}
	var out []domain.Order
	for _, o := range f.Orders {
		if o.TxHash == txHash {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *FakeCheckout) GetTransactions(_ context.Context, account, contract string, limit, offset int) (*domain.TransactionsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTransactions")
	if f.Err != nil {
		return nil, f.Err
	}
	return &domain.TransactionsPage{Transactions: window(f.Transactions, limit, offset)}, nil
}

func (f *FakeCheckout) GetNewTransactions(ctx context.Context, account, contract string, from time.Time) ([]domain.Transaction, error) {
	f.mu.Lock()
	f.record("GetNewTransactions")
	f.froms = append(f.froms, from)
	hook := f.NewTxsHook
	txs := append([]domain.Transaction(nil), f.NewTxs...)
	err := f.Err
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, from)
	}
	return txs, err
}

func (f *FakeCheckout) GetTransaction(_ context.Context, hash string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTransaction")
	if f.Err != nil {
		return nil, f.Err
	}
	for _, tx := range f.Transactions {
		if tx.Hash == hash {
			tx := tx
			return &tx, nil
		}
	}
	return nil, nil
}

func (f *FakeCheckout) GetCard(_ context.Context, serial string) (*domain.CardLookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetCard")
	if lookup, ok := f.Cards[serial]; ok {
		return lookup, nil
	}
	return &domain.CardLookup{Status: 404}, nil
}

// Orders builds n orders with ids starting at from.
func Orders(from, n int) []domain.Order {
	out := make([]domain.Order, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Order{
			ID:        int64(from + i),
			Status:    "paid",
			TxHash:    fmt.Sprintf("0x%04x", from+i),
			CreatedAt: time.Unix(int64(1_700_000_000-(from+i)*60), 0).UTC(),
		})
	}
	return out
}

// Transactions builds n transactions with ids starting at from.
func Transactions(from, n int) []domain.Transaction {
	out := make([]domain.Transaction, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Transaction{
			ID:        fmt.Sprintf("tx-%d", from+i),
			Hash:      fmt.Sprintf("0x%04x", from+i),
			Status:    "success",
			Value:     "1000000",
			CreatedAt: time.Unix(int64(1_700_000_000-(from+i)*60), 0).UTC(),
		})
	}
	return out
}
