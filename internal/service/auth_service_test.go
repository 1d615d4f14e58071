package service

import (
	"context"
	"testing"
	"time"

	"github.com/ringside/roster-service/internal/auth"
	"github.com/ringside/roster-service/internal/config"
	"github.com/ringside/roster-service/internal/domain"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := auth.NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 30}, &stubClock{now: time.Now()})
	svc := NewAuthService(users, tokens, auth.NewHasher(4))
	return svc, users
}

func TestCreateUserAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Pat Booker", "Pat@Example.com", "s3cret-pass", domain.RoleBooker)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "pat@example.com" {
		t.Fatalf("email = %q, want lowercased", user.Email)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in plaintext")
	}

	result, err := svc.Login(ctx, "  pat@example.com ", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" || result.User.ID != user.ID {
		t.Fatalf("unexpected login result: %+v", result)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "Pat Booker", "pat@example.com", "s3cret-pass", domain.RoleBooker); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Unknown email and wrong password are indistinguishable.
	_, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	conflictCode(t, err, "UNAUTHORIZED")
	_, err = svc.Login(ctx, "pat@example.com", "wrong-pass")
	conflictCode(t, err, "UNAUTHORIZED")
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "Pat", "pat@example.com", "short", domain.RoleBooker); err == nil {
		t.Fatal("expected short password to be rejected")
	}
	if _, err := svc.CreateUser(ctx, "Pat", "pat@example.com", "s3cret-pass", domain.UserRole("VIEWER")); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
	if _, err := svc.CreateUser(ctx, "", "pat@example.com", "s3cret-pass", domain.RoleAdmin); err == nil {
		t.Fatal("expected missing name to be rejected")
	}
}
