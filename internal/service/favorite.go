package service

import (
	"context"
	"log/slog"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/errors"
	"github.com/guftaho/guftaho-server/internal/id"
	"github.com/guftaho/guftaho-server/internal/store"
	"github.com/guftaho/guftaho-server/internal/validation"
)

// FavoriteService manages user bookmarks on poets, books, and poems.
type FavoriteService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(store store.Store, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ToggleFavoriteRequest identifies the target to toggle.
type ToggleFavoriteRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=poet book poem"`
	TargetID   string `json:"target_id" validate:"required"`
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	Favorited bool             `json:"favorited"`
	Favorite  *domain.Favorite `json:"favorite,omitempty"`
}

// ToggleFavorite adds the target to the user's favorites, or removes it if
// already present. The target reference is polymorphic, so existence is
// checked here rather than by a foreign key.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, userID string, req ToggleFavoriteRequest) (*ToggleResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	targetType := domain.TargetType(req.TargetType)

	existing, err := s.store.GetFavorite(ctx, userID, targetType, req.TargetID)
	if err == nil {
		if err := s.store.DeleteFavorite(ctx, existing.ID); err != nil {
			return nil, err
		}
		s.logger.Info("favorite removed", "user_id", userID, "target_type", targetType, "target_id", req.TargetID)
		return &ToggleResult{Favorited: false}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	exists, err := s.store.TargetExists(ctx, targetType, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NotFoundf("%s %q not found", targetType, req.TargetID)
	}

	favoriteID, err := id.Generate("fav")
	if err != nil {
		return nil, err
	}

	favorite := &domain.Favorite{
		ID:         favoriteID,
		UserID:     userID,
		TargetType: targetType,
		TargetID:   req.TargetID,
	}

	if err := s.store.CreateFavorite(ctx, favorite); err != nil {
		// A concurrent toggle for the same triple beat us; report the
		// target as favorited rather than failing.
		if errors.Is(err, store.ErrAlreadyExists) {
			return &ToggleResult{Favorited: true}, nil
		}
		return nil, err
	}

	s.logger.Info("favorite added", "user_id", userID, "target_type", targetType, "target_id", req.TargetID)
	return &ToggleResult{Favorited: true, Favorite: favorite}, nil
}

// ListFavorites returns the user's favorites, newest first.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	return s.store.ListFavorites(ctx, userID)
}

// IsFavorited reports whether the user has favorited the target.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID string, targetType domain.TargetType, targetID string) (bool, error) {
	_, err := s.store.GetFavorite(ctx, userID, targetType, targetID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, err
}
