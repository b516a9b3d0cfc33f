package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rs/zerolog"

	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// UserService is the ADMIN-only account management surface.
type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Create(ctx context.Context, in ports.UserInput, actor domain.Actor) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// New accounts are EDITOR unless explicitly ADMIN.
	role := domain.RoleEditor
	if in.Role == domain.RoleAdmin {
		role = domain.RoleAdmin
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user", created.ID).Str("role", role).Msg("user created")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id string, in ports.UserInput, actor domain.Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	// Unknown roles collapse to EDITOR; INACTIVE is only reachable here.
	role := in.Role
	if role != domain.RoleAdmin && role != domain.RoleInactive {
		role = domain.RoleEditor
	}

	hash := ""
	if in.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hash = string(h)
	}

	return s.users.Update(ctx, id, in.Name, in.Email, role, hash)
}

func (s *UserService) Delete(ctx context.Context, id string, actor domain.Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// SeedAdmin creates the bootstrap ADMIN account once; reruns are no-ops.
func (s *UserService) SeedAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	if _, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}); err != nil {
		return false, err
	}

	s.log.Info().Str("email", email).Msg("seed admin created")
	return true, nil
}

func requireAdmin(actor domain.Actor) error {
	if actor.ID == "" {
		return domain.ErrUnauthorized
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
