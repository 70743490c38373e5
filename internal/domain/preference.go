package domain

import (
	"context"
	"time"
)

type Language string

const (
	LanguageEN Language = "en"
	LanguageFR Language = "fr"
	LanguageNL Language = "nl"
)

func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguageEN, LanguageFR, LanguageNL:
		return Language(s), nil
	}
	return "", ErrInvalidLanguage
}

// CardPreference holds what the web wallet used to keep in localStorage.
type CardPreference struct {
	Serial    string
	Language  Language
	Anonymous bool
	UpdatedAt time.Time
}

type PreferenceRepository interface {
	GetPreference(ctx context.Context, serial string) (*CardPreference, error)
	SavePreference(ctx context.Context, pref *CardPreference) error
}
