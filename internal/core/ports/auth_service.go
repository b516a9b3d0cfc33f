package ports

import (
	"context"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// AuthService authenticates operators and manages their own credentials.
type AuthService interface {
	// Login verifies the email/password pair and returns a signed session
	// token plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ChangePassword verifies the current password before storing a new hash.
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
