package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// SettingsService reads and updates the singleton configuration document.
// The duplicate-collapse repair lives in the repository and is run once at
// startup, not on every read.
type SettingsService struct {
	settings ports.SettingsRepository
	log      zerolog.Logger
}

func NewSettingsService(settings ports.SettingsRepository, log zerolog.Logger) *SettingsService {
	return &SettingsService{settings: settings, log: log}
}

func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	doc, err := s.settings.Find(ctx)
	if errors.Is(err, domain.ErrSettingsNotFound) {
		// Initialize-if-absent keeps Get total even when the startup repair
		// never ran (fresh database).
		return s.settings.EnsureSingleton(ctx)
	}
	return doc, err
}

func (s *SettingsService) Update(ctx context.Context, in ports.SettingsInput, actor domain.Actor) (*domain.Settings, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.settings.Update(ctx, &domain.Settings{
		ID:             current.ID,
		SMSEnabled:     in.SMSEnabled,
		SMSURLTemplate: in.SMSURLTemplate,
		AdminPhone:     in.AdminPhone,
		Flags:          in.Flags,
		Templates:      in.Templates,
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Bool("sms_enabled", updated.SMSEnabled).Msg("settings updated")
	return updated, nil
}
