package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

const userColumns = `id, email, password_hash, display_name, is_root, role,
	last_login_at, created_at, updated_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		isRoot      int
		lastLoginAt sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.DisplayName,
		&isRoot,
		&u.Role,
		&lastLoginAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.IsRoot = isRoot != 0

	if lastLoginAt.Valid && lastLoginAt.String != "" {
		if u.LastLoginAt, err = parseTime(lastLoginAt.String); err != nil {
			return nil, err
		}
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

// nullableLoginTime treats the zero time as "never logged in".
func nullableLoginTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists if the email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, is_root,
			role, last_login_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		boolToInt(user.IsRoot),
		string(user.Role),
		nullableLoginTime(user.LastLoginAt),
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("email already registered").WithCause(err)
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	return user, err
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	return user, err
}

// UpdateUser updates an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET email = ?, password_hash = ?, display_name = ?,
			is_root = ?, role = ?, last_login_at = ?, updated_at = ?
		WHERE id = ?`,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		boolToInt(user.IsRoot),
		string(user.Role),
		nullableLoginTime(user.LastLoginAt),
		formatTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("email already registered").WithCause(err)
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("user not found")
	}
	return nil
}

// CountUsers returns the total number of users. A zero count means the
// server has not been set up yet.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
