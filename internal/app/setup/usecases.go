package setup

import (
	"context"
	"log/slog"

	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/account"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/order"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/preference"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/session"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/transaction"
)

type UseCases struct {
	AccountUsecase    *account.DefaultAccountUsecase
	PreferenceUsecase *preference.DefaultPreferenceUsecase
	Sessions          *session.Registry
	OrderLookup       *order.DefaultOrderUsecase
	TransactionLookup *transaction.DefaultTransactionUsecase
}

// InitializeUseCases wires the usecases. Sessions live as long as ctx.
func InitializeUseCases(ctx context.Context, deps *Dependencies, logger *slog.Logger) (*UseCases, error) {
	accountUsecase := account.NewDefaultAccountUsecase(deps.Community, deps.Chain, deps.Checkout)
	accountUsecase.Profiles = deps.Profiles
	accountUsecase.Logger = logger
	preferenceUsecase := preference.NewDefaultPreferenceUsecase(deps.Repositories.PreferenceRepo)

	var onUpsert transaction.UpsertHook
	if deps.EventPublisher != nil {
		onUpsert = deps.EventPublisher.Hook
	}

	syncCfg := deps.Config.Sync
	registry, err := session.NewRegistry(ctx, deps.Checkout, accountUsecase, deps.Metrics, logger, session.Options{
		Limit:          syncCfg.Limit,
		ReloadInterval: syncCfg.ReloadInterval,
		PollInterval:   syncCfg.PollInterval,
		IdleTTL:        syncCfg.SessionTTL,
		OnUpsert:       onUpsert,
	})
	if err != nil {
		return nil, err
	}

	return &UseCases{
		AccountUsecase:    accountUsecase,
		PreferenceUsecase: preferenceUsecase,
		Sessions:          registry,
		OrderLookup:       order.NewDefaultOrderUsecase(deps.Checkout, deps.Metrics, logger, order.Options{}),
		TransactionLookup: transaction.NewDefaultTransactionUsecase(deps.Checkout, deps.Metrics, logger, transaction.Options{}),
	}, nil
}
