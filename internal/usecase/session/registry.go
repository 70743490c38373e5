package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/metrics"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/account"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/order"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/transaction"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jaevor/go-nanoid"
)

type SessionUsecase interface {
	Open(ctx context.Context, params OpenParams) (*Session, error)
	Get(id string) (*Session, error)
	Close(id string) error
	EvictIdle() int
	Count() int
}

type OpenParams struct {
	Serial  string
	Account string
	Token   string
}

type Options struct {
	Limit          int
	ReloadInterval time.Duration
	PollInterval   time.Duration
	RefetchDelay   time.Duration
	IdleTTL        time.Duration
	Now            func() time.Time
	OnUpsert       transaction.UpsertHook
}

// Registry owns the open sessions. Pollers run under the registry context,
// so they outlive the request that opened them and stop on shutdown.
type Registry struct {
	Checkout domain.CheckoutClient
	Accounts account.AccountUsecase
	Metrics  *metrics.SyncMetrics
	Cards    *metrics.CardCounter
	Logger   *slog.Logger

	ctx   context.Context
	opts  Options
	newID func() string

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(
	ctx context.Context,
	checkout domain.CheckoutClient,
	accounts account.AccountUsecase,
	syncMetrics *metrics.SyncMetrics,
	logger *slog.Logger,
	opts Options) (*Registry, error) {

	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("session id generator: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{
		Checkout: checkout,
		Accounts: accounts,
		Metrics:  syncMetrics,
		Cards:    metrics.NewCardCounter(syncMetrics),
		Logger:   logger.With("component", "sessions"),
		ctx:      ctx,
		opts:     opts,
		newID:    idGenerator,
		sessions: make(map[string]*Session),
	}, nil
}

// Open creates a session for a card serial or an account address, loads
// the first page of orders and starts listening for transactions.
func (r *Registry) Open(ctx context.Context, params OpenParams) (*Session, error) {
	accountAddr := params.Account
	if accountAddr == "" {
		if params.Serial == "" || r.Accounts == nil {
			return nil, domain.ErrInvalidAddress
		}
		card, err := r.Accounts.ResolveCard(ctx, params.Serial)
		if err != nil {
			return nil, err
		}
		accountAddr = card.Account
	}
	if !common.IsHexAddress(accountAddr) {
		return nil, domain.ErrInvalidAddress
	}
	if params.Serial != "" {
		r.Cards.Observe(params.Serial)
	}

	id := r.newID()
	logger := r.Logger.With("session", id)
	s := &Session{
		ID:      id,
		Serial:  params.Serial,
		Account: accountAddr,
		Token:   params.Token,
		Orders: order.NewDefaultOrderUsecase(r.Checkout, r.Metrics, logger, order.Options{
			Limit:          r.opts.Limit,
			ReloadInterval: r.opts.ReloadInterval,
			Now:            r.opts.Now,
		}),
		Transactions: transaction.NewDefaultTransactionUsecase(r.Checkout, r.Metrics, logger, transaction.Options{
			Limit:          r.opts.Limit,
			ReloadInterval: r.opts.ReloadInterval,
			PollInterval:   r.opts.PollInterval,
			Now:            r.opts.Now,
			OnUpsert:       r.opts.OnUpsert,
		}),
		now:          r.opts.Now,
		refetchDelay: r.opts.RefetchDelay,
		done:         make(chan struct{}),
	}
	s.Touch(r.opts.Now())

	s.Orders.LoadOrders(ctx, s.Account, s.Token, false)
	unlisten := s.Transactions.Listen(r.ctx, s.Account, s.Token)
	s.mu.Lock()
	s.unlisten = unlisten
	s.mu.Unlock()

	r.mu.Lock()
	r.sessions[id] = s
	n := len(r.sessions)
	r.mu.Unlock()
	r.Metrics.SetSessions(n)

	logger.Info("session opened", "account", s.Account, "token", s.Token)
	return s, nil
}

// Get returns an open session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.Touch(r.opts.Now())
	return s, nil
}

func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	r.Metrics.SetSessions(n)
	s.Close()
	r.Logger.Info("session closed", "session", id)
	return nil
}

// EvictIdle closes the sessions not used within the idle TTL and returns
// how many were closed. Sessions with an attached stream are kept.
func (r *Registry) EvictIdle() int {
	if r.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.opts.Now().Add(-r.opts.IdleTTL)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.Attached() == 0 && s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if len(idle) > 0 {
		r.Metrics.SetSessions(n)
	}
	for _, s := range idle {
		s.Close()
		r.Logger.Info("idle session evicted", "session", s.ID)
	}
	return len(idle)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every session. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
	r.Metrics.SetSessions(0)
}
