package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

func makeTestUser(id, email string) *domain.User {
	now := time.Now()
	return &domain.User{
		Record: domain.Record{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: "argon2id$test",
		Role:         domain.RoleReader,
	}
}

func TestFavoriteLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "reader@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Рӯдакӣ", "rudaki")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}

	f := &domain.Favorite{
		ID:         "fav-1",
		UserID:     "user-1",
		TargetType: domain.TargetPoet,
		TargetID:   "poet-1",
		CreatedAt:  time.Now(),
	}
	if err := s.CreateFavorite(ctx, f); err != nil {
		t.Fatalf("CreateFavorite: %v", err)
	}

	got, err := s.GetFavorite(ctx, "user-1", domain.TargetPoet, "poet-1")
	if err != nil {
		t.Fatalf("GetFavorite: %v", err)
	}
	if got.ID != "fav-1" {
		t.Errorf("ID: got %q", got.ID)
	}
	if got.TargetType != domain.TargetPoet {
		t.Errorf("TargetType: got %q", got.TargetType)
	}

	// Same triple twice is rejected.
	dup := &domain.Favorite{
		ID:         "fav-2",
		UserID:     "user-1",
		TargetType: domain.TargetPoet,
		TargetID:   "poet-1",
		CreatedAt:  time.Now(),
	}
	if err := s.CreateFavorite(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	if err := s.DeleteFavorite(ctx, "fav-1"); err != nil {
		t.Fatalf("DeleteFavorite: %v", err)
	}
	if _, err := s.GetFavorite(ctx, "user-1", domain.TargetPoet, "poet-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListFavorites_PerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateUser(ctx, makeTestUser("user-2", "b@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Рӯдакӣ", "rudaki")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}
	if err := s.CreateBook(ctx, makeTestBook("book-1", "Девон", "devon", "poet-1")); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	entries := []*domain.Favorite{
		{ID: "fav-1", UserID: "user-1", TargetType: domain.TargetPoet, TargetID: "poet-1", CreatedAt: time.Now().Add(-time.Hour)},
		{ID: "fav-2", UserID: "user-1", TargetType: domain.TargetBook, TargetID: "book-1", CreatedAt: time.Now()},
		{ID: "fav-3", UserID: "user-2", TargetType: domain.TargetPoet, TargetID: "poet-1", CreatedAt: time.Now()},
	}
	for _, f := range entries {
		if err := s.CreateFavorite(ctx, f); err != nil {
			t.Fatalf("CreateFavorite %s: %v", f.ID, err)
		}
	}

	favorites, err := s.ListFavorites(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favorites) != 2 {
		t.Fatalf("got %d favorites, want 2", len(favorites))
	}
	// Newest first.
	if favorites[0].ID != "fav-2" {
		t.Errorf("expected newest first, got %s", favorites[0].ID)
	}

	// Different users may favorite the same target.
	if _, err := s.GetFavorite(ctx, "user-2", domain.TargetPoet, "poet-1"); err != nil {
		t.Errorf("user-2 favorite: %v", err)
	}
}

func TestTargetExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Рӯдакӣ", "rudaki")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}
	if err := s.CreateBook(ctx, makeTestBook("book-1", "Девон", "devon", "poet-1")); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if err := s.CreatePoem(ctx, makeTestPoem("poem-1", "Ғазал", "ghazal", "book-1")); err != nil {
		t.Fatalf("CreatePoem: %v", err)
	}

	tests := []struct {
		targetType domain.TargetType
		targetID   string
		want       bool
	}{
		{domain.TargetPoet, "poet-1", true},
		{domain.TargetPoet, "poet-missing", false},
		{domain.TargetBook, "book-1", true},
		{domain.TargetBook, "poet-1", false},
		{domain.TargetPoem, "poem-1", true},
	}
	for _, tt := range tests {
		got, err := s.TargetExists(ctx, tt.targetType, tt.targetID)
		if err != nil {
			t.Fatalf("TargetExists(%s, %s): %v", tt.targetType, tt.targetID, err)
		}
		if got != tt.want {
			t.Errorf("TargetExists(%s, %s): got %v, want %v", tt.targetType, tt.targetID, got, tt.want)
		}
	}

	if _, err := s.TargetExists(ctx, domain.TargetType("stanza"), "x"); err == nil {
		t.Error("expected error for unknown target type")
	}
}

func TestDeleteUser_CascadesFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Рӯдакӣ", "rudaki")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}
	f := &domain.Favorite{
		ID: "fav-1", UserID: "user-1",
		TargetType: domain.TargetPoet, TargetID: "poet-1",
		CreatedAt: time.Now(),
	}
	if err := s.CreateFavorite(ctx, f); err != nil {
		t.Fatalf("CreateFavorite: %v", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, "user-1"); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	favorites, err := s.ListFavorites(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("expected favorites cascade delete, got %d", len(favorites))
	}
}
