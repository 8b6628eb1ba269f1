package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/id"
	"github.com/guftaho/guftaho-server/internal/store"
	"github.com/guftaho/guftaho-server/internal/validation"
)

// ReadingService tracks per-user reading history.
type ReadingService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewReadingService creates a new reading history service.
func NewReadingService(store store.Store, logger *slog.Logger) *ReadingService {
	return &ReadingService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// RecordReadingRequest records a read of a poem.
// Progress outside 0-100 is clamped, not rejected.
type RecordReadingRequest struct {
	PoemID   string `json:"poem_id" validate:"required"`
	Progress int    `json:"progress"`
}

// RecordReading upserts a reading history entry for the user. Repeated
// reads of the same poem refresh the existing row instead of adding one.
func (s *ReadingService) RecordReading(ctx context.Context, userID string, req RecordReadingRequest) (*domain.ReadingHistory, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetPoem(ctx, req.PoemID); err != nil {
		return nil, err
	}

	entryID, err := id.Generate("read")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &domain.ReadingHistory{
		ID:         entryID,
		UserID:     userID,
		PoemID:     req.PoemID,
		Progress:   domain.ClampProgress(req.Progress),
		LastReadAt: now,
		CreatedAt:  now,
	}

	if err := s.store.UpsertReadingHistory(ctx, entry); err != nil {
		return nil, err
	}

	return s.store.GetReadingHistory(ctx, userID, req.PoemID)
}

// ListReadingHistory returns the user's history, most recent read first.
func (s *ReadingService) ListReadingHistory(ctx context.Context, userID string) ([]*domain.ReadingHistory, error) {
	return s.store.ListReadingHistory(ctx, userID)
}
