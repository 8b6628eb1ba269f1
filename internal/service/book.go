package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/errors"
	"github.com/guftaho/guftaho-server/internal/id"
	"github.com/guftaho/guftaho-server/internal/slug"
	"github.com/guftaho/guftaho-server/internal/store"
	"github.com/guftaho/guftaho-server/internal/validation"
)

// BookService orchestrates book operations.
type BookService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListBooks returns a paginated book listing.
func (s *BookService) ListBooks(ctx context.Context, filter store.BookFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Book], error) {
	return s.store.ListBooks(ctx, filter, params)
}

// GetBookBySlug returns a book and records the view.
func (s *BookService) GetBookBySlug(ctx context.Context, bookSlug string) (*domain.Book, error) {
	book, err := s.store.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return nil, err
	}

	if err := s.store.IncrementBookViews(ctx, book.ID); err != nil {
		s.logger.Warn("failed to record book view", "book_id", book.ID, "error", err)
	} else {
		book.ViewCount++
	}

	return book, nil
}

// ListPoemsByBook returns a book's poems in reading order.
func (s *BookService) ListPoemsByBook(ctx context.Context, bookSlug string) ([]*domain.Poem, error) {
	book, err := s.store.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return nil, err
	}
	return s.store.ListPoemsByBook(ctx, book.ID)
}

// CreateBookRequest contains fields for creating a book.
type CreateBookRequest struct {
	Title           string     `json:"title" validate:"required,min=1,max=300"`
	Slug            string     `json:"slug" validate:"omitempty,max=300"`
	PoetSlug        string     `json:"poet_slug" validate:"required"`
	Description     string     `json:"description"`
	PublicationDate *time.Time `json:"publication_date"`
}

// CreateBook creates a new book under the named poet.
// Book slugs are unique across the whole archive, not per poet, so a book
// URL never needs the poet segment to resolve.
func (s *BookService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	poet, err := s.store.GetPoetBySlug(ctx, req.PoetSlug)
	if err != nil {
		return nil, err
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, err
	}

	book := &domain.Book{
		Record:          domain.Record{ID: bookID},
		Title:           req.Title,
		Slug:            req.Slug,
		PoetID:          poet.ID,
		Description:     req.Description,
		PublicationDate: req.PublicationDate,
		PoetName:        poet.Name,
		PoetSlug:        poet.Slug,
	}
	book.InitTimestamps()

	explicitSlug := !book.NeedsSlug()

	for attempt := 0; attempt < slugRetryAttempts; attempt++ {
		if book.NeedsSlug() {
			candidate := slug.Make(book.Title, "book")
			unique, err := slug.Unique(candidate, func(c string) (bool, error) {
				return s.store.BookSlugExists(ctx, c)
			})
			if err != nil {
				return nil, err
			}
			book.Slug = unique
		}

		err = s.store.CreateBook(ctx, book)
		if err == nil {
			s.logger.Info("book created", "id", bookID, "title", book.Title, "slug", book.Slug, "poet_id", poet.ID)
			return book, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) || explicitSlug {
			return nil, err
		}

		book.Slug = ""
	}

	return nil, errors.Conflict("could not assign a unique book slug")
}

// UpdateBookRequest contains fields for updating a book.
// The slug and the owning poet are fixed at creation.
type UpdateBookRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=1,max=300"`
	Description     *string    `json:"description"`
	PublicationDate *time.Time `json:"publication_date"`
}

// UpdateBook updates a book.
func (s *BookService) UpdateBook(ctx context.Context, bookSlug string, req UpdateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.PublicationDate != nil {
		book.PublicationDate = req.PublicationDate
	}
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info("book updated", "id", book.ID, "slug", book.Slug)
	return book, nil
}

// DeleteBook removes a book and cascades to its poems.
func (s *BookService) DeleteBook(ctx context.Context, bookSlug string) error {
	book, err := s.store.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, book.ID); err != nil {
		return err
	}

	s.logger.Info("book deleted", "id", book.ID, "slug", book.Slug)
	return nil
}
