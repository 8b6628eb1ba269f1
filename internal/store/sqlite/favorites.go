package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

const favoriteColumns = `id, user_id, target_type, target_id, created_at`

func scanFavorite(scanner interface{ Scan(dest ...any) error }) (*domain.Favorite, error) {
	var f domain.Favorite

	var createdAt string

	err := scanner.Scan(&f.ID, &f.UserID, &f.TargetType, &f.TargetID, &createdAt)
	if err != nil {
		return nil, err
	}

	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &f, nil
}

// GetFavorite retrieves the favorite for a (user, target type, target) triple.
func (s *Store) GetFavorite(ctx context.Context, userID string, targetType domain.TargetType, targetID string) (*domain.Favorite, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites
		 WHERE user_id = ? AND target_type = ? AND target_id = ?`,
		userID, string(targetType), targetID)

	favorite, err := scanFavorite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("favorite not found")
	}
	return favorite, err
}

// CreateFavorite inserts a favorite.
// Returns store.ErrAlreadyExists if the triple is already favorited.
func (s *Store) CreateFavorite(ctx context.Context, favorite *domain.Favorite) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (id, user_id, target_type, target_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		favorite.ID,
		favorite.UserID,
		string(favorite.TargetType),
		favorite.TargetID,
		formatTime(favorite.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("already favorited").WithCause(err)
		}
		return err
	}
	return nil
}

// DeleteFavorite removes a favorite by ID.
func (s *Store) DeleteFavorite(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("favorite not found")
	}
	return nil
}

// ListFavorites returns a user's favorites, newest first.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites
		 WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := []*domain.Favorite{}
	for rows.Next() {
		favorite, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, favorite)
	}
	return favorites, rows.Err()
}

// TargetExists reports whether the favorite target row exists. The favorites
// table carries no foreign key to the target, so this runs at toggle time.
func (s *Store) TargetExists(ctx context.Context, targetType domain.TargetType, targetID string) (bool, error) {
	var table string
	switch targetType {
	case domain.TargetPoet:
		table = "poets"
	case domain.TargetBook:
		table = "books"
	case domain.TargetPoem:
		table = "poems"
	default:
		return false, fmt.Errorf("unknown target type %q", targetType)
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = ?)`, targetID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists != 0, nil
}
