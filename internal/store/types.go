package store

import (
	"context"

	"github.com/guftaho/guftaho-server/internal/domain"
)

// PoetFilter narrows poet listings.
type PoetFilter struct {
	// Query matches name and biography, case-insensitive substring.
	Query string
	// FeaturedFirst lists featured poets before the rest; ordering within
	// each group stays name ascending.
	FeaturedFirst bool
}

// BookFilter narrows book listings.
type BookFilter struct {
	// Query matches title, description, and the owning poet's name.
	Query string
	// PoetSlug restricts results to books of one poet.
	PoetSlug string
}

// PoemFilter narrows poem listings. Filters combine with AND;
// the text query matches any of its fields (OR).
type PoemFilter struct {
	// Query matches title, content, book title, and poet name.
	Query string
	// PoetSlug restricts results to poems of one poet.
	PoetSlug string
	// BookSlug restricts results to poems of one book.
	BookSlug string
}

// SearchIndexer is the interface for keeping the full-text index in sync.
// The store uses this to publish changes without depending on the search
// implementation.
type SearchIndexer interface {
	IndexPoet(ctx context.Context, poet *domain.Poet) error
	DeletePoet(ctx context.Context, poetID string) error
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
	IndexPoem(ctx context.Context, poem *domain.Poem) error
	DeletePoem(ctx context.Context, poemID string) error
}

// NoopSearchIndexer is a no-op implementation for testing and for running
// without a search index.
type NoopSearchIndexer struct{}

// IndexPoet is a no-op.
func (NoopSearchIndexer) IndexPoet(context.Context, *domain.Poet) error { return nil }

// DeletePoet is a no-op.
func (NoopSearchIndexer) DeletePoet(context.Context, string) error { return nil }

// IndexBook is a no-op.
func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// DeleteBook is a no-op.
func (NoopSearchIndexer) DeleteBook(context.Context, string) error { return nil }

// IndexPoem is a no-op.
func (NoopSearchIndexer) IndexPoem(context.Context, *domain.Poem) error { return nil }

// DeletePoem is a no-op.
func (NoopSearchIndexer) DeletePoem(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op indexer.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
