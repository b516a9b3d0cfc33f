package ports

import (
	"context"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// Notifier delivers SMS notifications for financial events. Implementations
// are fire-and-forget: they must never block the mutation that triggered
// them and never propagate delivery failures back to it.
type Notifier interface {
	FundsAdded(ctx context.Context, customer *domain.Customer, amount float64, addedBy string)
	STBAssigned(ctx context.Context, customer *domain.Customer, deviceID string, amount float64, addedBy string)
}
