// Package service orchestrates catalog operations on top of the store.
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

// slugRetryAttempts bounds the resolve-and-insert loop when concurrent
// creates race for the same slug. The database UNIQUE constraint is the
// final arbiter; the loop just re-resolves and tries again.
const slugRetryAttempts = 3

// PoetService orchestrates poet operations.
type PoetService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewPoetService creates a new poet service.
func NewPoetService(store store.Store, logger *slog.Logger) *PoetService {
	return &PoetService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListPoets returns a paginated poet listing.
func (s *PoetService) ListPoets(ctx context.Context, filter store.PoetFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Poet], error) {
	return s.store.ListPoets(ctx, filter, params)
}

// GetPoetBySlug returns a poet and records the view.
// The view counter increments atomically in the store; a failed increment
// is logged but never fails the read.
func (s *PoetService) GetPoetBySlug(ctx context.Context, poetSlug string) (*domain.Poet, error) {
	poet, err := s.store.GetPoetBySlug(ctx, poetSlug)
	if err != nil {
		return nil, err
	}

	if err := s.store.IncrementPoetViews(ctx, poet.ID); err != nil {
		s.logger.Warn("failed to record poet view", "poet_id", poet.ID, "error", err)
	} else {
		poet.ViewCount++
	}

	return poet, nil
}

// ListBooksByPoet returns a poet's books, newest publication first.
func (s *PoetService) ListBooksByPoet(ctx context.Context, poetSlug string) ([]*domain.Book, error) {
	poet, err := s.store.GetPoetBySlug(ctx, poetSlug)
	if err != nil {
		return nil, err
	}
	return s.store.ListBooksByPoet(ctx, poet.ID)
}

// CreatePoetRequest contains fields for creating a poet.
type CreatePoetRequest struct {
	Name      string     `json:"name" validate:"required,min=1,max=200"`
	Slug      string     `json:"slug" validate:"omitempty,max=200"`
	Biography string     `json:"biography"`
	BirthDate *time.Time `json:"birth_date"`
	DeathDate *time.Time `json:"death_date"`
	Featured  bool       `json:"featured"`
}

// CreatePoet creates a new poet, assigning a slug if none was supplied.
// The slug is derived from the transliterated name and made unique across
// all poets; an explicit slug is kept verbatim and may conflict.
func (s *PoetService) CreatePoet(ctx context.Context, req CreatePoetRequest) (*domain.Poet, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	poetID, err := id.Generate("poet")
	if err != nil {
		return nil, err
	}

	poet := &domain.Poet{
		Record:    domain.Record{ID: poetID},
		Name:      req.Name,
		Slug:      req.Slug,
		Biography: req.Biography,
		BirthDate: req.BirthDate,
		DeathDate: req.DeathDate,
		Featured:  req.Featured,
	}
	poet.InitTimestamps()

	explicitSlug := !poet.NeedsSlug()

	for attempt := 0; attempt < slugRetryAttempts; attempt++ {
		if poet.NeedsSlug() {
			candidate := slug.Make(poet.Name, "poet")
			unique, err := slug.Unique(candidate, func(c string) (bool, error) {
				return s.store.PoetSlugExists(ctx, c)
			})
			if err != nil {
				return nil, err
			}
			poet.Slug = unique
		}

		err = s.store.CreatePoet(ctx, poet)
		if err == nil {
			s.logger.Info("poet created", "id", poetID, "name", poet.Name, "slug", poet.Slug)
			return poet, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) || explicitSlug {
			return nil, err
		}

		// Lost a race for the slug; resolve again.
		poet.Slug = ""
	}

	return nil, errors.Conflict("could not assign a unique poet slug")
}

// UpdatePoetRequest contains fields for updating a poet.
// The slug is deliberately absent: it is assigned once at creation and
// renames never regenerate it.
type UpdatePoetRequest struct {
	Name      *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Biography *string    `json:"biography"`
	BirthDate *time.Time `json:"birth_date"`
	DeathDate *time.Time `json:"death_date"`
	Featured  *bool      `json:"featured"`
}

// UpdatePoet updates a poet.
func (s *PoetService) UpdatePoet(ctx context.Context, poetSlug string, req UpdatePoetRequest) (*domain.Poet, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	poet, err := s.store.GetPoetBySlug(ctx, poetSlug)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		poet.Name = *req.Name
	}
	if req.Biography != nil {
		poet.Biography = *req.Biography
	}
	if req.BirthDate != nil {
		poet.BirthDate = req.BirthDate
	}
	if req.DeathDate != nil {
		poet.DeathDate = req.DeathDate
	}
	if req.Featured != nil {
		poet.Featured = *req.Featured
	}
	poet.Touch()

	if err := s.store.UpdatePoet(ctx, poet); err != nil {
		return nil, err
	}

	s.logger.Info("poet updated", "id", poet.ID, "slug", poet.Slug)
	return poet, nil
}

// DeletePoet removes a poet and cascades to their books and poems.
func (s *PoetService) DeletePoet(ctx context.Context, poetSlug string) error {
	poet, err := s.store.GetPoetBySlug(ctx, poetSlug)
	if err != nil {
		return err
	}

	if err := s.store.DeletePoet(ctx, poet.ID); err != nil {
		return err
	}

	s.logger.Info("poet deleted", "id", poet.ID, "slug", poet.Slug)
	return nil
}
