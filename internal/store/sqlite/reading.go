package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

// readingColumns joins poems and books for the denormalized display fields.
const readingColumns = `rh.id, rh.user_id, rh.poem_id, rh.progress,
	rh.last_read_at, rh.created_at, pm.title, pm.slug, b.slug`

const readingFrom = ` FROM reading_history rh
	JOIN poems pm ON pm.id = rh.poem_id
	JOIN books b ON b.id = pm.book_id`

func scanReadingHistory(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingHistory, error) {
	var rh domain.ReadingHistory

	var lastReadAt, createdAt string

	err := scanner.Scan(
		&rh.ID,
		&rh.UserID,
		&rh.PoemID,
		&rh.Progress,
		&lastReadAt,
		&createdAt,
		&rh.PoemTitle,
		&rh.PoemSlug,
		&rh.BookSlug,
	)
	if err != nil {
		return nil, err
	}

	if rh.LastReadAt, err = parseTime(lastReadAt); err != nil {
		return nil, err
	}
	if rh.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &rh, nil
}

// UpsertReadingHistory records a read. A repeat read of the same poem
// refreshes progress and last_read_at on the existing row instead of
// inserting a duplicate.
func (s *Store) UpsertReadingHistory(ctx context.Context, entry *domain.ReadingHistory) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_history (id, user_id, poem_id, progress, last_read_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, poem_id) DO UPDATE SET
			progress = excluded.progress,
			last_read_at = excluded.last_read_at`,
		entry.ID,
		entry.UserID,
		entry.PoemID,
		entry.Progress,
		formatTime(entry.LastReadAt),
		formatTime(entry.CreatedAt),
	)
	return err
}

// GetReadingHistory retrieves one user's reading entry for a poem.
func (s *Store) GetReadingHistory(ctx context.Context, userID, poemID string) (*domain.ReadingHistory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+readingColumns+readingFrom+` WHERE rh.user_id = ? AND rh.poem_id = ?`,
		userID, poemID)

	entry, err := scanReadingHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("reading history not found")
	}
	return entry, err
}

// ListReadingHistory returns a user's reading history, most recent first.
func (s *Store) ListReadingHistory(ctx context.Context, userID string) ([]*domain.ReadingHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+readingColumns+readingFrom+` WHERE rh.user_id = ?
		 ORDER BY rh.last_read_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.ReadingHistory{}
	for rows.Next() {
		entry, err := scanReadingHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
