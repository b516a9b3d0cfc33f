package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

func seedUser(t *testing.T, repo *stubUserRepo, name, email, password, role string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := repo.Create(context.Background(), &domain.User{
		Name: name, Email: email, PasswordHash: string(hash), Role: role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestAuthLogin_Success(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(t, repo, "Carol", "carol@example.com", "s3cret", domain.RoleAdmin)
	svc := NewAuthService(repo, "secret", time.Hour)

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if user == nil || user.ID != seeded.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["uid"] != seeded.ID {
		t.Errorf("uid claim: expected %q, got %v", seeded.ID, claims["uid"])
	}
	if claims["name"] != "Carol" {
		t.Errorf("name claim: got %v", claims["name"])
	}
	if claims["role"] != domain.RoleAdmin {
		t.Errorf("role claim: got %v", claims["role"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("exp claim missing")
	}
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "Dave", "dave@example.com", "goodpass", domain.RoleEditor)
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthLogin_UnknownEmailIsIndistinguishable(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	// Unknown accounts must answer exactly like a wrong password.
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthLogin_EmptyInput(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword_Success(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(t, repo, "Eve", "eve@example.com", "oldpass", domain.RoleEditor)
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, seeded.ID, "oldpass", "newpass"); err != nil {
		t.Fatalf("change: %v", err)
	}

	if _, _, err := svc.Login(ctx, "eve@example.com", "oldpass"); err == nil {
		t.Error("old password must stop working")
	}
	if _, _, err := svc.Login(ctx, "eve@example.com", "newpass"); err != nil {
		t.Errorf("new password must work: %v", err)
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(t, repo, "Eve", "eve@example.com", "oldpass", domain.RoleEditor)
	svc := NewAuthService(repo, "secret", time.Hour)

	err := svc.ChangePassword(context.Background(), seeded.ID, "wrong", "newpass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
