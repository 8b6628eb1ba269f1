package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/guftaho/guftaho-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("expected password to verify")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail")
	}

	// Malformed hash verifies false without error.
	ok, err = VerifyPassword("not-a-hash", "anything")
	if err != nil || ok {
		t.Errorf("malformed hash: ok=%v err=%v", ok, err)
	}
}

func TestHashPassword_Limits(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
	if _, err := HashPassword(strings.Repeat("x", maxPasswordLength+1)); err == nil {
		t.Error("expected error for oversized password")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	keyHex := strings.Repeat("ab", 32)
	svc, err := NewTokenService(keyHex, 15*time.Minute, 720*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	user := &domain.User{
		Record: domain.Record{ID: "user-1"},
		Email:  "reader@example.com",
		Role:   domain.RoleAdmin,
		IsRoot: true,
	}

	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID: got %q", claims.UserID)
	}
	if claims.Email != "reader@example.com" {
		t.Errorf("Email: got %q", claims.Email)
	}
	if claims.Role != "admin" || !claims.IsRoot {
		t.Errorf("Role/IsRoot: got %q %v", claims.Role, claims.IsRoot)
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	keyHex := strings.Repeat("cd", 32)
	svc, err := NewTokenService(keyHex, -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	user := &domain.User{Record: domain.Record{ID: "user-1"}, Email: "a@example.com", Role: domain.RoleReader}
	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Error("expected expired token to fail verification")
	}
}

func TestNewTokenService_BadKey(t *testing.T) {
	if _, err := NewTokenService("short", time.Minute, time.Hour); err == nil {
		t.Error("expected error for short key")
	}
	if _, err := NewTokenService(strings.Repeat("zz", 32), time.Minute, time.Hour); err == nil {
		t.Error("expected error for non-hex key")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	keyHex := strings.Repeat("ef", 32)
	svc, err := NewTokenService(keyHex, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	t1, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	t2, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if t1 == t2 {
		t.Error("refresh tokens should be unique")
	}

	// Hashing is deterministic and never returns the raw token.
	if HashRefreshToken(t1) != HashRefreshToken(t1) {
		t.Error("hash should be deterministic")
	}
	if HashRefreshToken(t1) == t1 {
		t.Error("hash should differ from the token")
	}
	if len(HashRefreshToken(t1)) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(HashRefreshToken(t1)))
	}
}
