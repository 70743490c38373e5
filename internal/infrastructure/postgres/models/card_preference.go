package models

import "time"

type CardPreferenceModel struct {
	Serial    string `gorm:"primaryKey;size:128"`
	Language  string `gorm:"size:8;not null;default:en"`
	Anonymous bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CardPreferenceModel) TableName() string {
	return "card_preferences"
}
