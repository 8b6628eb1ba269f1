package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

const sessionColumns = `id, user_id, refresh_token_hash, expires_at, created_at, last_used_at`

func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var sess domain.Session

	var expiresAt, createdAt, lastUsedAt string

	err := scanner.Scan(
		&sess.ID,
		&sess.UserID,
		&sess.RefreshTokenHash,
		&expiresAt,
		&createdAt,
		&lastUsedAt,
	)
	if err != nil {
		return nil, err
	}

	if sess.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sess.LastUsedAt, err = parseTime(lastUsedAt); err != nil {
		return nil, err
	}

	return &sess, nil
}

// CreateSession inserts a new refresh-token session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, refresh_token_hash, expires_at, created_at, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.RefreshTokenHash,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		formatTime(session.LastUsedAt),
	)
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("session already exists").WithCause(err)
	}
	return err
}

// GetSessionByRefreshToken looks up a session by the hash of its refresh token.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = ?`, tokenHash)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("session not found")
	}
	return session, err
}

// UpdateSession rotates a session's refresh token and timestamps.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET refresh_token_hash = ?, expires_at = ?, last_used_at = ?
		WHERE id = ?`,
		session.RefreshTokenHash,
		formatTime(session.ExpiresAt),
		formatTime(session.LastUsedAt),
		session.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("session not found")
	}
	return nil
}

// DeleteSession removes one session (logout).
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("session not found")
	}
	return nil
}

// DeleteAllUserSessions removes every session of one user (logout everywhere).
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredSessions removes sessions whose expiry has passed and reports
// how many were deleted. Run periodically from the server's janitor loop.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}
