package security

import (
	"testing"
	"time"

	"talentx/internal/common"
)

func TestJWTProviderRoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	provider := NewJWTProvider("secret").WithClock(func() time.Time { return now })

	token, expiresAt, err := provider.Generate(common.UUID("user-1"), "jane@example.com", "talent", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", now.Add(time.Hour), expiresAt)
	}
	claims, err := provider.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID() != "user-1" || claims.Email != "jane@example.com" || claims.Role != "talent" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestJWTProviderRejectsExpiredAndForeignTokens(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	provider := NewJWTProvider("secret").WithClock(func() time.Time { return now })
	token, _, err := provider.Generate(common.UUID("user-1"), "jane@example.com", "talent", time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	later := provider.WithClock(func() time.Time { return now.Add(2 * time.Minute) })
	if _, err := later.Parse(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	other := NewJWTProvider("other-secret").WithClock(func() time.Time { return now })
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}

	if _, err := provider.Parse("not-a-token"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "password123" {
		t.Fatal("password stored in plaintext")
	}
	ok, err := CheckPassword(hash, "password123")
	if err != nil || !ok {
		t.Fatalf("expected match, got %v %v", ok, err)
	}
	ok, err = CheckPassword(hash, "wrong")
	if err != nil || ok {
		t.Fatalf("expected mismatch, got %v %v", ok, err)
	}
	if _, err := CheckPassword("not-a-hash", "x"); err == nil {
		t.Fatal("expected malformed hash error")
	}
}
