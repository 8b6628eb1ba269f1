package service

import (
	"context"
	"log/slog"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/errors"
	"github.com/guftaho/guftaho-server/internal/id"
	"github.com/guftaho/guftaho-server/internal/slug"
	"github.com/guftaho/guftaho-server/internal/store"
	"github.com/guftaho/guftaho-server/internal/validation"
)

// PoemService orchestrates poem operations.
type PoemService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewPoemService creates a new poem service.
func NewPoemService(store store.Store, logger *slog.Logger) *PoemService {
	return &PoemService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListPoems returns a paginated poem listing.
func (s *PoemService) ListPoems(ctx context.Context, filter store.PoemFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Poem], error) {
	return s.store.ListPoems(ctx, filter, params)
}

// PoemPage is a poem with its neighbors in reading order.
// Previous or Next is nil at the edges of the book.
type PoemPage struct {
	Poem     *domain.Poem `json:"poem"`
	Previous *domain.Poem `json:"previous,omitempty"`
	Next     *domain.Poem `json:"next,omitempty"`
}

// GetPoemBySlug resolves a poem by its book and poem slugs, records the
// view, and resolves the previous/next neighbors for navigation.
func (s *PoemService) GetPoemBySlug(ctx context.Context, bookSlug, poemSlug string) (*PoemPage, error) {
	book, err := s.store.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return nil, err
	}

	poem, err := s.store.GetPoemBySlug(ctx, book.ID, poemSlug)
	if err != nil {
		return nil, err
	}

	if err := s.store.IncrementPoemViews(ctx, poem.ID); err != nil {
		s.logger.Warn("failed to record poem view", "poem_id", poem.ID, "error", err)
	} else {
		poem.ViewCount++
	}

	page := &PoemPage{Poem: poem}

	prev, err := s.store.PreviousPoem(ctx, book.ID, poem.Order)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	page.Previous = prev

	next, err := s.store.NextPoem(ctx, book.ID, poem.Order)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	page.Next = next

	return page, nil
}

// CreatePoemRequest contains fields for creating a poem.
type CreatePoemRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=300"`
	Slug     string `json:"slug" validate:"omitempty,max=300"`
	BookSlug string `json:"book_slug" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Order    int    `json:"order" validate:"gte=0"`
}

// CreatePoem creates a new poem in the named book.
// The slug is unique within the book only; word and line counts are
// computed from the content at save time.
func (s *PoemService) CreatePoem(ctx context.Context, req CreatePoemRequest) (*domain.Poem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.GetBookBySlug(ctx, req.BookSlug)
	if err != nil {
		return nil, err
	}

	poemID, err := id.Generate("poem")
	if err != nil {
		return nil, err
	}

	poem := &domain.Poem{
		Record:    domain.Record{ID: poemID},
		Title:     req.Title,
		Slug:      req.Slug,
		BookID:    book.ID,
		Content:   req.Content,
		Order:     req.Order,
		BookTitle: book.Title,
		BookSlug:  book.Slug,
		PoetName:  book.PoetName,
		PoetSlug:  book.PoetSlug,
	}
	poem.InitTimestamps()
	poem.Recount()

	explicitSlug := !poem.NeedsSlug()

	for attempt := 0; attempt < slugRetryAttempts; attempt++ {
		if poem.NeedsSlug() {
			candidate := slug.Make(poem.Title, "poem")
			unique, err := slug.Unique(candidate, func(c string) (bool, error) {
				return s.store.PoemSlugExists(ctx, book.ID, c)
			})
			if err != nil {
				return nil, err
			}
			poem.Slug = unique
		}

		err = s.store.CreatePoem(ctx, poem)
		if err == nil {
			s.logger.Info("poem created", "id", poemID, "title", poem.Title, "slug", poem.Slug, "book_id", book.ID)
			return poem, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) || explicitSlug {
			return nil, err
		}

		poem.Slug = ""
	}

	return nil, errors.Conflict("could not assign a unique poem slug")
}

// UpdatePoemRequest contains fields for updating a poem.
// The slug and the owning book are fixed at creation.
type UpdatePoemRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=300"`
	Content *string `json:"content" validate:"omitempty,min=1"`
	Order   *int    `json:"order" validate:"omitempty,gte=0"`
}

// UpdatePoem updates a poem. Counts are recomputed on every save.
func (s *PoemService) UpdatePoem(ctx context.Context, bookSlug, poemSlug string, req UpdatePoemRequest) (*domain.Poem, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return nil, err
	}

	poem, err := s.store.GetPoemBySlug(ctx, book.ID, poemSlug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		poem.Title = *req.Title
	}
	if req.Content != nil {
		poem.Content = *req.Content
	}
	if req.Order != nil {
		poem.Order = *req.Order
	}
	poem.Recount()
	poem.Touch()

	if err := s.store.UpdatePoem(ctx, poem); err != nil {
		return nil, err
	}

	s.logger.Info("poem updated", "id", poem.ID, "slug", poem.Slug)
	return poem, nil
}

// DeletePoem removes a poem.
func (s *PoemService) DeletePoem(ctx context.Context, bookSlug, poemSlug string) error {
	book, err := s.store.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return err
	}

	poem, err := s.store.GetPoemBySlug(ctx, book.ID, poemSlug)
	if err != nil {
		return err
	}

	if err := s.store.DeletePoem(ctx, poem.ID); err != nil {
		return err
	}

	s.logger.Info("poem deleted", "id", poem.ID, "slug", poem.Slug)
	return nil
}
