package transaction

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/metrics"
	"github.com/citizenwallet/brussels-pay-wallet/internal/state"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/pagination"
)

const (
	resourceTransactions = "transactions"

	DefaultPollInterval = 2 * time.Second
)

// UpsertHook receives the transactions merged by a poll.
type UpsertHook func(ctx context.Context, account string, txs []domain.Transaction)

type TransactionUsecase interface {
	GetTransactions(ctx context.Context, account, token string, reset bool) bool
	LoadTransactions(ctx context.Context, account, token string, reset bool)
	GetTransaction(ctx context.Context, hash string) (*domain.Transaction, error)
	Listen(ctx context.Context, account, token string) (unsubscribe func())
	Polling() bool
	Store() *state.Store[domain.Transaction]
	Clear()
}

type Options struct {
	Limit          int
	ReloadInterval time.Duration
	PollInterval   time.Duration
	Now            func() time.Time
	OnUpsert       UpsertHook
}

type DefaultTransactionUsecase struct {
	Checkout domain.CheckoutClient
	Metrics  *metrics.SyncMetrics
	Logger   *slog.Logger

	store        *state.Store[domain.Transaction]
	pager        *pagination.Pager[domain.Transaction]
	gate         *pagination.TTLGate
	pollInterval time.Duration
	now          func() time.Time
	onUpsert     UpsertHook

	pollMu    sync.Mutex
	poller    *poller
	watermark time.Time
}

func NewDefaultTransactionUsecase(
	checkout domain.CheckoutClient,
	txMetrics *metrics.SyncMetrics,
	logger *slog.Logger,
	opts Options) *DefaultTransactionUsecase {

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "transactions")
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	store := state.NewStore[domain.Transaction]()
	return &DefaultTransactionUsecase{
		Checkout:     checkout,
		Metrics:      txMetrics,
		Logger:       logger,
		store:        store,
		pager:        pagination.NewPager(resourceTransactions, opts.Limit, store, txMetrics, logger),
		gate:         pagination.NewTTLGate(opts.ReloadInterval, opts.Now),
		pollInterval: opts.PollInterval,
		now:          opts.Now,
		onUpsert:     opts.OnUpsert,
	}
}

func (uc *DefaultTransactionUsecase) Store() *state.Store[domain.Transaction] {
	return uc.store
}

// Clear stops polling and drops all transactions, the pagination cursor and
// the reload stamps.
func (uc *DefaultTransactionUsecase) Clear() {
	uc.stopPolling(nil)
	uc.pager.Reset()
	uc.gate.Reset()
	uc.store.Clear()
}
