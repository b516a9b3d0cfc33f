package ports

import (
	"context"
	"time"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// STBRepository defines persistence operations for set-top boxes.
type STBRepository interface {
	Create(ctx context.Context, s *domain.STB) (*domain.STB, error)
	FindByID(ctx context.Context, id string) (*domain.STB, error)
	// List returns all STBs newest first with creator and customer names populated.
	List(ctx context.Context) ([]*domain.STB, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.STB, error)
	// CountByCustomers returns customerID → number of STBs for the given customers.
	CountByCustomers(ctx context.Context, customerIDs []string) (map[string]int64, error)
	Update(ctx context.Context, id, deviceID, customerCode string, amount float64, note string) error
	Delete(ctx context.Context, id string) error
	DeleteByCustomer(ctx context.Context, customerID string) error

	// Report reads. Both bounds are inclusive.
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	SumAmountBetween(ctx context.Context, from, to time.Time) (float64, error)
	FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.STB, error)
}
