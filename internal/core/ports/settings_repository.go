package ports

import (
	"context"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// SettingsRepository persists the singleton settings document.
type SettingsRepository interface {
	// EnsureSingleton is the startup repair routine: create a default document
	// when none exists, and when more than one exists keep the newest and
	// delete the rest. It returns the surviving document.
	EnsureSingleton(ctx context.Context) (*domain.Settings, error)
	// Find returns the settings document, ErrSettingsNotFound when absent.
	Find(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, s *domain.Settings) (*domain.Settings, error)
}
