package preference

import (
	"context"
	"fmt"
	"strings"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
)

type PreferenceUsecase interface {
	Get(ctx context.Context, serial, acceptLanguage string) (*domain.CardPreference, error)
	Save(ctx context.Context, serial string, language string, anonymous bool) (*domain.CardPreference, error)
}

type DefaultPreferenceUsecase struct {
	Repo domain.PreferenceRepository
}

func NewDefaultPreferenceUsecase(repo domain.PreferenceRepository) *DefaultPreferenceUsecase {
	return &DefaultPreferenceUsecase{Repo: repo}
}

// Get returns the stored preference of a card. Cards without one get the
// language negotiated from acceptLanguage and are not anonymous.
func (uc *DefaultPreferenceUsecase) Get(ctx context.Context, serial, acceptLanguage string) (*domain.CardPreference, error) {
	pref, err := uc.Repo.GetPreference(ctx, serial)
	if err != nil {
		return nil, fmt.Errorf("get preference: %w", err)
	}
	if pref != nil {
		return pref, nil
	}
	return &domain.CardPreference{
		Serial:   serial,
		Language: NegotiateLanguage(acceptLanguage),
	}, nil
}

func (uc *DefaultPreferenceUsecase) Save(ctx context.Context, serial string, language string, anonymous bool) (*domain.CardPreference, error) {
	lang, err := domain.ParseLanguage(language)
	if err != nil {
		return nil, err
	}
	pref := &domain.CardPreference{
		Serial:    serial,
		Language:  lang,
		Anonymous: anonymous,
	}
	if err := uc.Repo.SavePreference(ctx, pref); err != nil {
		return nil, fmt.Errorf("save preference: %w", err)
	}
	return pref, nil
}

// NegotiateLanguage picks the first supported language of an
// Accept-Language header, in header order. Quality values are ignored.
func NegotiateLanguage(header string) domain.Language {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if lang, err := domain.ParseLanguage(base); err == nil {
			return lang
		}
	}
	return domain.LanguageEN
}
