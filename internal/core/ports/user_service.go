package ports

import (
	"context"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// UserInput carries the writable account fields. Password is optional on
// update (empty keeps the current hash).
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserService is the ADMIN-only account management surface.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, in UserInput, actor domain.Actor) (*domain.User, error)
	Update(ctx context.Context, id string, in UserInput, actor domain.Actor) error
	Delete(ctx context.Context, id string, actor domain.Actor) error
	// SeedAdmin idempotently creates the bootstrap ADMIN account; it reports
	// whether a new account was created.
	SeedAdmin(ctx context.Context, name, email, password string) (bool, error)
}
