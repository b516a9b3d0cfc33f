package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

func TestUserCreate_AdminOnly(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), discardLogger)
	in := ports.UserInput{Name: "N", Email: "n@example.com", Password: "pass123", Role: domain.RoleEditor}

	if _, err := svc.Create(context.Background(), in, editorActor); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("editor: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(context.Background(), in, domain.Actor{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("anonymous: expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Create(context.Background(), in, adminActor); err != nil {
		t.Errorf("admin: %v", err)
	}
}

func TestUserCreate_HashesPasswordAndNormalizesRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)

	created, err := svc.Create(context.Background(), ports.UserInput{
		Name: "N", Email: "n@example.com", Password: "pass123", Role: "SUPERUSER",
	}, adminActor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Role != domain.RoleEditor {
		t.Errorf("unknown role must collapse to EDITOR, got %q", created.Role)
	}
	stored := repo.byID[created.ID]
	if stored.PasswordHash == "pass123" {
		t.Error("password must be hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")) != nil {
		t.Error("hash does not match the password")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), discardLogger)
	in := ports.UserInput{Name: "N", Email: "dup@example.com", Password: "pass123"}

	if _, err := svc.Create(context.Background(), in, adminActor); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), in, adminActor); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestUserUpdate_InactiveRoleAndOptionalPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)
	ctx := context.Background()

	created, _ := svc.Create(ctx, ports.UserInput{
		Name: "N", Email: "n@example.com", Password: "pass123",
	}, adminActor)
	originalHash := repo.byID[created.ID].PasswordHash

	// Deactivate without touching the password.
	err := svc.Update(ctx, created.ID, ports.UserInput{
		Name: "N", Email: "n@example.com", Role: domain.RoleInactive,
	}, adminActor)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	stored := repo.byID[created.ID]
	if stored.Role != domain.RoleInactive {
		t.Errorf("role: expected INACTIVE, got %q", stored.Role)
	}
	if stored.PasswordHash != originalHash {
		t.Error("empty password must keep the current hash")
	}
}

func TestUserDelete_AdminOnlyAndMissing(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)
	ctx := context.Background()

	created, _ := svc.Create(ctx, ports.UserInput{
		Name: "N", Email: "n@example.com", Password: "pass123",
	}, adminActor)

	if err := svc.Delete(ctx, created.ID, editorActor); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("editor delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID, adminActor); err != nil {
		t.Errorf("admin delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID, adminActor); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("second delete: expected ErrUserNotFound, got %v", err)
	}
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)
	ctx := context.Background()

	created, err := svc.SeedAdmin(ctx, "Admin", "admin@example.com", "admin123")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !created {
		t.Fatal("first seed must create the account")
	}

	created, err = svc.SeedAdmin(ctx, "Admin", "admin@example.com", "admin123")
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if created {
		t.Error("reseed must be a no-op")
	}
	if len(repo.byID) != 1 {
		t.Errorf("expected exactly 1 account, got %d", len(repo.byID))
	}
	for _, u := range repo.byID {
		if u.Role != domain.RoleAdmin {
			t.Errorf("seeded account must be ADMIN, got %q", u.Role)
		}
	}
}
