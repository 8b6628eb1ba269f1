// Package store defines the persistence interface for the Guftaho server.
package store

import (
	"context"
	"time"

	"github.com/guftaho/guftaho-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Poets
	CreatePoet(ctx context.Context, poet *domain.Poet) error
	GetPoet(ctx context.Context, id string) (*domain.Poet, error)
	GetPoetBySlug(ctx context.Context, slug string) (*domain.Poet, error)
	PoetSlugExists(ctx context.Context, slug string) (bool, error)
	UpdatePoet(ctx context.Context, poet *domain.Poet) error
	DeletePoet(ctx context.Context, id string) error
	ListPoets(ctx context.Context, filter PoetFilter, params PaginationParams) (*PaginatedResult[*domain.Poet], error)
	ListAllPoets(ctx context.Context) ([]*domain.Poet, error)
	CountPoets(ctx context.Context) (int, error)
	IncrementPoetViews(ctx context.Context, id string) error

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBookBySlug(ctx context.Context, slug string) (*domain.Book, error)
	BookSlugExists(ctx context.Context, slug string) (bool, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error
	ListBooks(ctx context.Context, filter BookFilter, params PaginationParams) (*PaginatedResult[*domain.Book], error)
	ListBooksByPoet(ctx context.Context, poetID string) ([]*domain.Book, error)
	ListAllBooks(ctx context.Context) ([]*domain.Book, error)
	IncrementBookViews(ctx context.Context, id string) error

	// Poems
	CreatePoem(ctx context.Context, poem *domain.Poem) error
	GetPoem(ctx context.Context, id string) (*domain.Poem, error)
	GetPoemBySlug(ctx context.Context, bookID, slug string) (*domain.Poem, error)
	PoemSlugExists(ctx context.Context, bookID, slug string) (bool, error)
	UpdatePoem(ctx context.Context, poem *domain.Poem) error
	DeletePoem(ctx context.Context, id string) error
	ListPoems(ctx context.Context, filter PoemFilter, params PaginationParams) (*PaginatedResult[*domain.Poem], error)
	ListPoemsByBook(ctx context.Context, bookID string) ([]*domain.Poem, error)
	ListAllPoems(ctx context.Context) ([]*domain.Poem, error)
	PreviousPoem(ctx context.Context, bookID string, order int) (*domain.Poem, error)
	NextPoem(ctx context.Context, bookID string, order int) (*domain.Poem, error)
	IncrementPoemViews(ctx context.Context, id string) error

	// Favorites
	GetFavorite(ctx context.Context, userID string, targetType domain.TargetType, targetID string) (*domain.Favorite, error)
	CreateFavorite(ctx context.Context, favorite *domain.Favorite) error
	DeleteFavorite(ctx context.Context, id string) error
	ListFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error)
	TargetExists(ctx context.Context, targetType domain.TargetType, targetID string) (bool, error)

	// Reading history
	UpsertReadingHistory(ctx context.Context, entry *domain.ReadingHistory) error
	GetReadingHistory(ctx context.Context, userID, poemID string) (*domain.ReadingHistory, error)
	ListReadingHistory(ctx context.Context, userID string) ([]*domain.ReadingHistory, error)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	CountUsers(ctx context.Context) (int, error)

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}
