package ports

import (
	"context"
	"time"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// CustomerRepository defines persistence operations for customers.
// List-style reads return documents newest first with the creator's display
// name populated from the users collection.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	// List returns a page of customers and the total count. page is 1-based.
	List(ctx context.Context, page, limit int) ([]*domain.Customer, int64, error)
	Update(ctx context.Context, id, name, phone, address string) error
	Delete(ctx context.Context, id string) error

	// Report reads. Both bounds are inclusive.
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Customer, error)
}
