package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/guftaho/guftaho-server/internal/auth"
	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
	"github.com/guftaho/guftaho-server/internal/store/sqlite"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	keyHex := strings.Repeat("ab", 32)
	ts, err := auth.NewTokenService(keyHex, 15*time.Minute, 720*time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return ts
}

func seedPoet(t *testing.T, svc *PoetService, name string) *domain.Poet {
	t.Helper()
	poet, err := svc.CreatePoet(context.Background(), CreatePoetRequest{Name: name})
	if err != nil {
		t.Fatalf("create poet %q: %v", name, err)
	}
	return poet
}

func seedBook(t *testing.T, svc *BookService, poetSlug, title string) *domain.Book {
	t.Helper()
	book, err := svc.CreateBook(context.Background(), CreateBookRequest{Title: title, PoetSlug: poetSlug})
	if err != nil {
		t.Fatalf("create book %q: %v", title, err)
	}
	return book
}
