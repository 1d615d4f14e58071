package auth

import (
	"testing"
	"time"

	"github.com/ringside/roster-service/internal/config"
	"github.com/ringside/roster-service/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func testConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 30}
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	tm := NewTokenManager(testConfig(), fixedClock{now: now})

	user := &domain.User{ID: "user-1", Role: domain.RoleBooker}
	token, expiresAt, err := tm.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := now.Add(30 * time.Minute); !expiresAt.Equal(want) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, want)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != domain.RoleBooker {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	now := time.Now()
	issuer := NewTokenManager(testConfig(), fixedClock{now: now})
	verifier := NewTokenManager(config.AuthConfig{JWTSecret: "other-secret", AccessTokenTTLMinutes: 30}, fixedClock{now: now})

	token, _, err := issuer.Issue(&domain.User{ID: "user-1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	tm := NewTokenManager(testConfig(), fixedClock{now: past})

	token, _, err := tm.Issue(&domain.User{ID: "user-1", Role: domain.RoleBooker})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := tm.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	tm := NewTokenManager(testConfig(), nil)
	if _, err := tm.Verify("not.a.token"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}

func TestHasherRoundTrip(t *testing.T) {
	hasher := NewHasher(0)

	hash, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !hasher.Compare(hash, "correct horse battery staple") {
		t.Fatal("expected matching password to compare true")
	}
	if hasher.Compare(hash, "wrong password") {
		t.Fatal("expected mismatched password to compare false")
	}
}
