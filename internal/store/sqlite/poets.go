package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

// poetColumns is the ordered list of columns selected in poet queries.
// Must match the scan order in scanPoet.
const poetColumns = `id, name, slug, biography, birth_date, death_date,
	view_count, featured, created_at, updated_at`

// scanPoet scans a sql.Row (or sql.Rows via its Scan method) into a domain.Poet.
func scanPoet(scanner interface{ Scan(dest ...any) error }) (*domain.Poet, error) {
	var p domain.Poet

	var (
		birthDate sql.NullString
		deathDate sql.NullString
		featured  int
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Biography,
		&birthDate,
		&deathDate,
		&p.ViewCount,
		&featured,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Featured = featured != 0

	if p.BirthDate, err = parseNullableTime(birthDate); err != nil {
		return nil, err
	}
	if p.DeathDate, err = parseNullableTime(deathDate); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePoet inserts a new poet.
// Returns store.ErrAlreadyExists if the ID or slug is already taken.
func (s *Store) CreatePoet(ctx context.Context, poet *domain.Poet) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poets (id, name, slug, biography, birth_date, death_date,
			view_count, featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		poet.ID,
		poet.Name,
		poet.Slug,
		poet.Biography,
		nullTimeString(poet.BirthDate),
		nullTimeString(poet.DeathDate),
		poet.ViewCount,
		boolToInt(poet.Featured),
		formatTime(poet.CreatedAt),
		formatTime(poet.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage(fmt.Sprintf("poet slug %q already exists", poet.Slug)).WithCause(err)
		}
		return err
	}

	if err := s.searchIndexer.IndexPoet(ctx, poet); err != nil {
		s.logger.Warn("failed to index poet", "poet_id", poet.ID, "error", err)
	}

	return nil
}

// GetPoet retrieves a poet by ID.
func (s *Store) GetPoet(ctx context.Context, id string) (*domain.Poet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+poetColumns+` FROM poets WHERE id = ?`, id)

	poet, err := scanPoet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("poet not found")
	}
	return poet, err
}

// GetPoetBySlug retrieves a poet by slug.
func (s *Store) GetPoetBySlug(ctx context.Context, slug string) (*domain.Poet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+poetColumns+` FROM poets WHERE slug = ?`, slug)

	poet, err := scanPoet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("poet not found")
	}
	return poet, err
}

// PoetSlugExists reports whether any poet already uses the slug.
// Used as the uniqueness-scope predicate during slug assignment.
func (s *Store) PoetSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM poets WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists != 0, nil
}

// UpdatePoet updates an existing poet. The slug column is deliberately not
// part of the statement: slugs are assigned once and never regenerated.
func (s *Store) UpdatePoet(ctx context.Context, poet *domain.Poet) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE poets SET name = ?, biography = ?, birth_date = ?, death_date = ?,
			featured = ?, updated_at = ?
		WHERE id = ?`,
		poet.Name,
		poet.Biography,
		nullTimeString(poet.BirthDate),
		nullTimeString(poet.DeathDate),
		boolToInt(poet.Featured),
		formatTime(poet.UpdatedAt),
		poet.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("poet not found")
	}

	if err := s.searchIndexer.IndexPoet(ctx, poet); err != nil {
		s.logger.Warn("failed to reindex poet", "poet_id", poet.ID, "error", err)
	}

	return nil
}

// DeletePoet removes a poet and, via cascade, their books and poems.
func (s *Store) DeletePoet(ctx context.Context, id string) error {
	// Collect child IDs first: the cascade removes the rows, but the
	// search index has to be told about each document.
	bookIDs, err := s.queryIDs(ctx, `SELECT id FROM books WHERE poet_id = ?`, id)
	if err != nil {
		return err
	}
	poemIDs, err := s.queryIDs(ctx, `SELECT pm.id FROM poems pm JOIN books b ON b.id = pm.book_id WHERE b.poet_id = ?`, id)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM poets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("poet not found")
	}

	if err := s.searchIndexer.DeletePoet(ctx, id); err != nil {
		s.logger.Warn("failed to remove poet from index", "poet_id", id, "error", err)
	}
	for _, bookID := range bookIDs {
		if err := s.searchIndexer.DeleteBook(ctx, bookID); err != nil {
			s.logger.Warn("failed to remove book from index", "book_id", bookID, "error", err)
		}
	}
	for _, poemID := range poemIDs {
		if err := s.searchIndexer.DeletePoem(ctx, poemID); err != nil {
			s.logger.Warn("failed to remove poem from index", "poem_id", poemID, "error", err)
		}
	}

	return nil
}

// ListPoets returns a paginated poet listing. Default order is name
// ascending; FeaturedFirst moves featured poets ahead of the rest.
func (s *Store) ListPoets(ctx context.Context, filter store.PoetFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Poet], error) {
	params.Validate()

	offset, err := decodeOffsetCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	where := ""
	args := []any{}
	if filter.Query != "" {
		where = ` WHERE (lower(name) LIKE ? ESCAPE '\' OR lower(biography) LIKE ? ESCAPE '\')`
		pattern := likePattern(filter.Query)
		args = append(args, pattern, pattern)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poets`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	orderBy := ` ORDER BY name ASC`
	if filter.FeaturedFirst {
		orderBy = ` ORDER BY featured DESC, name ASC`
	}

	query := `SELECT ` + poetColumns + ` FROM poets` + where + orderBy + ` LIMIT ? OFFSET ?`
	args = append(args, params.Limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	poets := []*domain.Poet{}
	for rows.Next() {
		poet, err := scanPoet(rows)
		if err != nil {
			return nil, err
		}
		poets = append(poets, poet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return paginate(poets, total, offset, params.Limit), nil
}

// ListAllPoets returns every poet, name ascending. Used for index rebuilds.
func (s *Store) ListAllPoets(ctx context.Context) ([]*domain.Poet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+poetColumns+` FROM poets ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	poets := []*domain.Poet{}
	for rows.Next() {
		poet, err := scanPoet(rows)
		if err != nil {
			return nil, err
		}
		poets = append(poets, poet)
	}
	return poets, rows.Err()
}

// CountPoets returns the total number of poets.
func (s *Store) CountPoets(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poets`).Scan(&count)
	return count, err
}

// IncrementPoetViews bumps the poet's view counter by one.
// A single UPDATE keeps concurrent increments from losing updates.
func (s *Store) IncrementPoetViews(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE poets SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("poet not found")
	}
	return nil
}

// boolToInt converts a bool to the 0/1 representation SQLite stores.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// paginate assembles a PaginatedResult from an offset-window query.
func paginate[T any](items []T, total, offset, limit int) *store.PaginatedResult[T] {
	result := &store.PaginatedResult[T]{
		Items:   items,
		Total:   total,
		HasMore: offset+len(items) < total,
	}
	if result.HasMore {
		result.NextCursor = store.EncodeCursor(fmt.Sprintf("%d", offset+limit))
	}
	return result
}
