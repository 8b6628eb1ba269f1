package service

import (
	"context"
	"log/slog"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/search"
	"github.com/guftaho/guftaho-server/internal/store"
)

// maxSearchLimit caps the page size for search queries.
const maxSearchLimit = 100

// SearchService bridges the store and the Bleve index. It implements
// store.SearchIndexer so catalog writes keep the index in sync, and exposes
// query and reindex operations for the API.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a query against the index with clamped pagination.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if params.Limit <= 0 {
		params.Limit = search.DefaultSearchParams().Limit
	}
	if params.Limit > maxSearchLimit {
		params.Limit = maxSearchLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	return s.index.Search(ctx, params)
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the index from the store. Used at startup when the
// mapping version changed and on demand from the admin API.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	if err := s.index.Rebuild(); err != nil {
		return err
	}

	poets, err := s.store.ListAllPoets(ctx)
	if err != nil {
		return err
	}
	books, err := s.store.ListAllBooks(ctx)
	if err != nil {
		return err
	}
	poems, err := s.store.ListAllPoems(ctx)
	if err != nil {
		return err
	}

	docs := make([]*search.SearchDocument, 0, len(poets)+len(books)+len(poems))
	for _, p := range poets {
		docs = append(docs, search.PoetToSearchDocument(p))
	}
	for _, b := range books {
		docs = append(docs, search.BookToSearchDocument(b))
	}
	for _, p := range poems {
		docs = append(docs, search.PoemToSearchDocument(p))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return err
	}

	s.logger.Info("search reindex complete",
		"poets", len(poets),
		"books", len(books),
		"poems", len(poems),
	)
	return nil
}

// store.SearchIndexer implementation. The store calls these after each
// catalog write; failures are logged by the store and never fail the write.

// IndexPoet indexes a poet document.
func (s *SearchService) IndexPoet(_ context.Context, poet *domain.Poet) error {
	return s.index.IndexDocument(search.PoetToSearchDocument(poet))
}

// DeletePoet removes a poet document.
func (s *SearchService) DeletePoet(_ context.Context, poetID string) error {
	return s.index.DeleteDocument(poetID)
}

// IndexBook indexes a book document.
func (s *SearchService) IndexBook(_ context.Context, book *domain.Book) error {
	return s.index.IndexDocument(search.BookToSearchDocument(book))
}

// DeleteBook removes a book document.
func (s *SearchService) DeleteBook(_ context.Context, bookID string) error {
	return s.index.DeleteDocument(bookID)
}

// IndexPoem indexes a poem document.
func (s *SearchService) IndexPoem(_ context.Context, poem *domain.Poem) error {
	return s.index.IndexDocument(search.PoemToSearchDocument(poem))
}

// DeletePoem removes a poem document.
func (s *SearchService) DeletePoem(_ context.Context, poemID string) error {
	return s.index.DeleteDocument(poemID)
}
