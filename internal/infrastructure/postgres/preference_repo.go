package postgres

import (
	"context"
	"errors"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPreferenceRepository struct {
	DB *gorm.DB
}

func NewDefaultPreferenceRepository(db *gorm.DB) *DefaultPreferenceRepository {
	return &DefaultPreferenceRepository{DB: db}
}

// GetPreference returns nil when the card has no stored preference.
func (r *DefaultPreferenceRepository) GetPreference(ctx context.Context, serial string) (*domain.CardPreference, error) {
	var model models.CardPreferenceModel
	err := r.DB.WithContext(ctx).Where("serial = ?", serial).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.CardPreference{
		Serial:    model.Serial,
		Language:  domain.Language(model.Language),
		Anonymous: model.Anonymous,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

func (r *DefaultPreferenceRepository) SavePreference(ctx context.Context, pref *domain.CardPreference) error {
	model := models.CardPreferenceModel{
		Serial:    pref.Serial,
		Language:  string(pref.Language),
		Anonymous: pref.Anonymous,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "serial"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "anonymous", "updated_at"}),
	}).Create(&model).Error
}
