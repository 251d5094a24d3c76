package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := VerifyPassword(hash, "hunter2"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, err := tokens.Issue(42, "manager")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	userID, role, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != 42 || role != "manager" {
		t.Fatalf("got user %d role %q", userID, role)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	signed, err := NewTokens("secret-a", time.Hour).Issue(1, "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := NewTokens("secret-b", time.Hour).Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	tokens := NewTokens("secret", -time.Minute)
	tokens.ttl = -time.Minute
	signed, err := tokens.Issue(1, "employee")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := tokens.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
