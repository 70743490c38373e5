package setup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/citizenwallet/brussels-pay-wallet/internal/client"
	"github.com/citizenwallet/brussels-pay-wallet/internal/config"
	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/chain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/community"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/kafka"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/metrics"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config         *config.WalletConfig
	DB             *gorm.DB
	Checkout       domain.CheckoutClient
	Chain          domain.Chain
	Community      domain.Community
	Profiles       domain.ProfileReader
	Metrics        *metrics.SyncMetrics
	KafkaPublisher *kafka.DefaultKafkaPublisher
	EventPublisher *kafka.TransactionEventPublisher
	Repositories   *Repositories
}

type Repositories struct {
	PreferenceRepo domain.PreferenceRepository
}

func InitializeDependencies(ctx context.Context, cfg *config.WalletConfig, reg prometheus.Registerer, logger *slog.Logger) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)

	checkout, err := client.NewHTTPCheckoutClient(cfg.CheckoutService.URL, cfg.CheckoutService.Timeout)
	if err != nil {
		return nil, fmt.Errorf("checkout client: %w", err)
	}

	communityCfg, err := community.Load(cfg.Community.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("community config: %w", err)
	}

	cardManager := cfg.Chain.CardManager
	if cardManager == "" {
		cardManager = communityCfg.CardManagerAddress()
	}
	ethChain, err := chain.Dial(ctx, cfg.Chain.RPCURL, cardManager, cfg.Chain.Instance)
	if err != nil {
		return nil, fmt.Errorf("chain: %w", err)
	}

	deps := &Dependencies{
		Config:    cfg,
		DB:        db,
		Checkout:  checkout,
		Chain:     ethChain,
		Community: communityCfg,
		Metrics:   metrics.NewSyncMetrics(reg),
		Repositories: &Repositories{
			PreferenceRepo: postgres.NewDefaultPreferenceRepository(db),
		},
	}

	if addr := communityCfg.ProfileAddress(); addr != "" {
		profiles, err := chain.NewProfileResolver(ethChain.Caller(), addr, cfg.IPFSDomain)
		if err != nil {
			return nil, fmt.Errorf("profile resolver: %w", err)
		}
		deps.Profiles = profiles
	}

	if cfg.KafkaService.Enabled {
		pub, err := initTransactionPublisher(cfg)
		if err != nil {
			return nil, fmt.Errorf("transaction publisher: %w", err)
		}
		deps.KafkaPublisher = pub
		deps.EventPublisher = kafka.NewTransactionEventPublisher(pub, pub.Topic(), logger)
	}
	return deps, nil
}

func initTransactionPublisher(cfg *config.WalletConfig) (*kafka.DefaultKafkaPublisher, error) {
	return kafka.NewKafkaPublisher(kafka.KafkaConfig{
		Brokers:    cfg.KafkaBrokers(),
		Topic:      cfg.KafkaService.Topic,
		Username:   cfg.KafkaService.Username,
		Password:   cfg.KafkaService.Password,
		Mechanism:  cfg.KafkaService.Mechanism,
		TLSEnabled: cfg.KafkaService.TLSEnabled,
	})
}

// Close releases the connections opened by InitializeDependencies.
func (d *Dependencies) Close() {
	if d.KafkaPublisher != nil {
		if err := d.KafkaPublisher.Close(); err != nil {
			slog.Error("failed to close kafka publisher", "error", err)
		}
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
