package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/metrics"
	"github.com/citizenwallet/brussels-pay-wallet/internal/state"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/pagination"
)

const resourceOrders = "orders"

type OrderUsecase interface {
	GetOrders(ctx context.Context, account, token string, reset bool) bool
	LoadOrders(ctx context.Context, account, token string, reset bool)
	LoadOrderFromTxHash(ctx context.Context, txHash string, reset bool)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	Store() *state.Store[domain.Order]
	Clear()
}

type Options struct {
	Limit          int
	ReloadInterval time.Duration
	Now            func() time.Time
}

// DefaultOrderUsecase keeps the orders of one wallet view in sync with the
// checkout backend.
type DefaultOrderUsecase struct {
	Checkout domain.CheckoutClient
	Metrics  *metrics.SyncMetrics
	Logger   *slog.Logger

	store *state.Store[domain.Order]
	pager *pagination.Pager[domain.Order]
	gate  *pagination.TTLGate
}

func NewDefaultOrderUsecase(
	checkout domain.CheckoutClient,
	orderMetrics *metrics.SyncMetrics,
	logger *slog.Logger,
	opts Options) *DefaultOrderUsecase {

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "orders")

	store := state.NewStore[domain.Order]()
	return &DefaultOrderUsecase{
		Checkout: checkout,
		Metrics:  orderMetrics,
		Logger:   logger,
		store:    store,
		pager:    pagination.NewPager(resourceOrders, opts.Limit, store, orderMetrics, logger),
		gate:     pagination.NewTTLGate(opts.ReloadInterval, opts.Now),
	}
}

func (uc *DefaultOrderUsecase) Store() *state.Store[domain.Order] {
	return uc.store
}

// Clear drops all orders, the pagination cursor and the reload stamps.
func (uc *DefaultOrderUsecase) Clear() {
	uc.pager.Reset()
	uc.gate.Reset()
	uc.store.Clear()
}
