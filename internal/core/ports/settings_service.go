package ports

import (
	"context"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// SettingsInput carries the writable singleton fields.
type SettingsInput struct {
	SMSEnabled     bool
	SMSURLTemplate string
	AdminPhone     string
	Flags          domain.SMSFlags
	Templates      domain.SMSTemplates
}

// SettingsService reads and updates the singleton configuration.
type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	// Update is ADMIN-only.
	Update(ctx context.Context, in SettingsInput, actor domain.Actor) (*domain.Settings, error)
}
