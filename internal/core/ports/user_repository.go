package ports

import (
	"context"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// UserRepository defines persistence for operator accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update replaces name, email and role; passwordHash is only written when
	// non-empty.
	Update(ctx context.Context, id, name, email, role, passwordHash string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
