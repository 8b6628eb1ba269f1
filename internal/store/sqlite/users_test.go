package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser("user-1", "admin@example.com")
	u.DisplayName = "Admin"
	u.IsRoot = true
	u.Role = domain.RoleAdmin

	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "admin@example.com" {
		t.Errorf("Email: got %q", got.Email)
	}
	if got.DisplayName != "Admin" {
		t.Errorf("DisplayName: got %q", got.DisplayName)
	}
	if !got.IsRoot {
		t.Error("IsRoot: expected true")
	}
	if got.Role != domain.RoleAdmin {
		t.Errorf("Role: got %q", got.Role)
	}
	if !got.LastLoginAt.IsZero() {
		t.Errorf("LastLoginAt: expected zero, got %v", got.LastLoginAt)
	}
	if !got.IsAdmin() {
		t.Error("IsAdmin: expected true")
	}

	byEmail, err := s.GetUserByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Errorf("GetUserByEmail ID: got %q", byEmail.ID)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "dup@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err := s.CreateUser(ctx, makeTestUser("user-2", "dup@example.com"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser("user-1", "reader@example.com")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	u.DisplayName = "Reader One"
	u.LastLoginAt = time.Now()
	u.Touch()
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.DisplayName != "Reader One" {
		t.Errorf("DisplayName: got %q", got.DisplayName)
	}
	if got.LastLoginAt.IsZero() {
		t.Error("LastLoginAt: expected set")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateUser(context.Background(), makeTestUser("user-missing", "x@example.com"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCountUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	count, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 0 {
		t.Errorf("count: got %d, want 0", count)
	}

	if err := s.CreateUser(ctx, makeTestUser("user-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateUser(ctx, makeTestUser("user-2", "b@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	count, err = s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 2 {
		t.Errorf("count: got %d, want 2", count)
	}
}
