package session

import (
	"context"
	"sync"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/order"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/scroll"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/transaction"
)

const (
	ListOrders       = "orders"
	ListTransactions = "transactions"
)

// Session is one wallet view: the orders and transactions of a single
// account, each with its own cursor and reload gate.
type Session struct {
	ID      string
	Serial  string
	Account string
	Token   string

	Orders       *order.DefaultOrderUsecase
	Transactions *transaction.DefaultTransactionUsecase

	now          func() time.Time
	refetchDelay time.Duration

	mu        sync.Mutex
	lastSeen  time.Time
	attached  int
	unlisten  func()
	done      chan struct{}
	closeOnce sync.Once
}

// Touch marks the session as used at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Seen marks the session as used now.
func (s *Session) Seen() {
	s.Touch(s.now())
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Attach registers a live stream on the session. A session with attached
// streams is never idle. The returned func detaches the stream and restarts
// the idle clock; it may be called more than once.
func (s *Session) Attach() func() {
	s.mu.Lock()
	s.attached++
	s.lastSeen = s.now()
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.attached--
			s.lastSeen = s.now()
			s.mu.Unlock()
		})
	}
}

// Attached returns the number of live streams.
func (s *Session) Attached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// NewScroller returns a scroll fetcher for list, nil for an unknown list.
// Every stream mounts its own fetcher, so a reconnecting browser fills its
// viewport again.
func (s *Session) NewScroller(list string) *scroll.Fetcher {
	switch list {
	case ListOrders, ListTransactions:
	default:
		return nil
	}
	return scroll.NewFetcher(func(ctx context.Context) bool {
		return s.More(ctx, list)
	}, nil, s.refetchDelay)
}

// More fetches the next page of list and reports whether more pages exist.
func (s *Session) More(ctx context.Context, list string) bool {
	switch list {
	case ListOrders:
		return s.Orders.GetOrders(ctx, s.Account, s.Token, false)
	case ListTransactions:
		return s.Transactions.GetTransactions(ctx, s.Account, s.Token, false)
	}
	return false
}

// Close stops polling, clears both collections and ends attached streams.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		unlisten := s.unlisten
		s.mu.Unlock()
		if unlisten != nil {
			unlisten()
		}
		s.Transactions.Clear()
		s.Orders.Clear()
	})
}
