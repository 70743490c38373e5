package postgres

import (
	"log"

	"github.com/citizenwallet/brussels-pay-wallet/internal/config"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/migrate"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.WalletConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.WalletDB.Dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if cfg.WalletDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.WalletDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v\n", err)
		}
		return db
	}

	if err := db.AutoMigrate(&models.CardPreferenceModel{}); err != nil {
		log.Fatalf("failed to migrate db: %v\n", err)
	}
	return db
}
