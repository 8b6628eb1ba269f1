package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

func makeTestSession(id, userID, tokenHash string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        now.Add(24 * time.Hour),
		CreatedAt:        now,
		LastUsedAt:       now,
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	sess := makeTestSession("sess-1", "user-1", "hash-1")
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByRefreshToken(ctx, "hash-1")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if got.ID != "sess-1" || got.UserID != "user-1" {
		t.Errorf("session: got %q user %q", got.ID, got.UserID)
	}

	// Rotation replaces the token hash.
	got.RefreshTokenHash = "hash-2"
	got.LastUsedAt = time.Now()
	if err := s.UpdateSession(ctx, got); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("old hash should be gone, got %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-2"); err != nil {
		t.Errorf("new hash lookup: %v", err)
	}

	if err := s.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteAllUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateUser(ctx, makeTestUser("user-2", "b@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	for i, tt := range []struct{ id, user, hash string }{
		{"sess-1", "user-1", "h1"},
		{"sess-2", "user-1", "h2"},
		{"sess-3", "user-2", "h3"},
	} {
		if err := s.CreateSession(ctx, makeTestSession(tt.id, tt.user, tt.hash)); err != nil {
			t.Fatalf("CreateSession %d: %v", i, err)
		}
	}

	if err := s.DeleteAllUserSessions(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteAllUserSessions: %v", err)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "h1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected user-1 sessions gone, got %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "h3"); err != nil {
		t.Errorf("user-2 session should survive: %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	live := makeTestSession("sess-live", "user-1", "h-live")
	expired := makeTestSession("sess-old", "user-1", "h-old")
	expired.ExpiresAt = time.Now().Add(-time.Hour)
	for _, sess := range []*domain.Session{live, expired} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}

	deleted, err := s.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted: got %d, want 1", deleted)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "h-old"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expired session should be gone, got %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "h-live"); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
}
