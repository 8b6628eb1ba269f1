package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

// poemColumns joins books and poets for the denormalized display fields.
// Must match the scan order in scanPoem. The order column is stored as
// "position" because ORDER is an SQL keyword.
const poemColumns = `pm.id, pm.title, pm.slug, pm.book_id, pm.content,
	pm.position, pm.word_count, pm.line_count, pm.view_count,
	pm.created_at, pm.updated_at, b.title, b.slug, p.name, p.slug`

const poemFrom = ` FROM poems pm
	JOIN books b ON b.id = pm.book_id
	JOIN poets p ON p.id = b.poet_id`

func scanPoem(scanner interface{ Scan(dest ...any) error }) (*domain.Poem, error) {
	var pm domain.Poem

	var createdAt, updatedAt string

	err := scanner.Scan(
		&pm.ID,
		&pm.Title,
		&pm.Slug,
		&pm.BookID,
		&pm.Content,
		&pm.Order,
		&pm.WordCount,
		&pm.LineCount,
		&pm.ViewCount,
		&createdAt,
		&updatedAt,
		&pm.BookTitle,
		&pm.BookSlug,
		&pm.PoetName,
		&pm.PoetSlug,
	)
	if err != nil {
		return nil, err
	}

	if pm.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if pm.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &pm, nil
}

// CreatePoem inserts a new poem.
// Returns store.ErrAlreadyExists if the slug is already taken within the book.
func (s *Store) CreatePoem(ctx context.Context, poem *domain.Poem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poems (id, title, slug, book_id, content, position,
			word_count, line_count, view_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		poem.ID,
		poem.Title,
		poem.Slug,
		poem.BookID,
		poem.Content,
		poem.Order,
		poem.WordCount,
		poem.LineCount,
		poem.ViewCount,
		formatTime(poem.CreatedAt),
		formatTime(poem.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage(fmt.Sprintf("poem slug %q already exists in book", poem.Slug)).WithCause(err)
		}
		return err
	}

	if err := s.searchIndexer.IndexPoem(ctx, poem); err != nil {
		s.logger.Warn("failed to index poem", "poem_id", poem.ID, "error", err)
	}

	return nil
}

// GetPoem retrieves a poem by ID.
func (s *Store) GetPoem(ctx context.Context, id string) (*domain.Poem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+poemColumns+poemFrom+` WHERE pm.id = ?`, id)

	poem, err := scanPoem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("poem not found")
	}
	return poem, err
}

// GetPoemBySlug retrieves a poem by slug within one book. The slug alone
// does not identify a poem; uniqueness is scoped to the book.
func (s *Store) GetPoemBySlug(ctx context.Context, bookID, slug string) (*domain.Poem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+poemColumns+poemFrom+` WHERE pm.book_id = ? AND pm.slug = ?`, bookID, slug)

	poem, err := scanPoem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("poem not found")
	}
	return poem, err
}

// PoemSlugExists reports whether the slug is taken within the given book.
func (s *Store) PoemSlugExists(ctx context.Context, bookID, slug string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM poems WHERE book_id = ? AND slug = ?)`,
		bookID, slug).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists != 0, nil
}

// UpdatePoem updates an existing poem. Slug and book_id never change after
// creation and are not part of the statement.
func (s *Store) UpdatePoem(ctx context.Context, poem *domain.Poem) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE poems SET title = ?, content = ?, position = ?,
			word_count = ?, line_count = ?, updated_at = ?
		WHERE id = ?`,
		poem.Title,
		poem.Content,
		poem.Order,
		poem.WordCount,
		poem.LineCount,
		formatTime(poem.UpdatedAt),
		poem.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("poem not found")
	}

	if err := s.searchIndexer.IndexPoem(ctx, poem); err != nil {
		s.logger.Warn("failed to reindex poem", "poem_id", poem.ID, "error", err)
	}

	return nil
}

// DeletePoem removes a poem.
func (s *Store) DeletePoem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM poems WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("poem not found")
	}

	if err := s.searchIndexer.DeletePoem(ctx, id); err != nil {
		s.logger.Warn("failed to remove poem from index", "poem_id", id, "error", err)
	}

	return nil
}

// ListPoems returns a paginated poem listing ordered by position within the
// book, then title. Filters combine with AND; the text query matches any of
// title, content, book title, or poet name.
func (s *Store) ListPoems(ctx context.Context, filter store.PoemFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Poem], error) {
	params.Validate()

	offset, err := decodeOffsetCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	where := ""
	args := []any{}
	addClause := func(clause string, clauseArgs ...any) {
		if where == "" {
			where = ` WHERE ` + clause
		} else {
			where += ` AND ` + clause
		}
		args = append(args, clauseArgs...)
	}

	if filter.Query != "" {
		pattern := likePattern(filter.Query)
		addClause(`(lower(pm.title) LIKE ? ESCAPE '\' OR lower(pm.content) LIKE ? ESCAPE '\' OR lower(b.title) LIKE ? ESCAPE '\' OR lower(p.name) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern)
	}
	if filter.PoetSlug != "" {
		addClause(`p.slug = ?`, filter.PoetSlug)
	}
	if filter.BookSlug != "" {
		addClause(`b.slug = ?`, filter.BookSlug)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+poemFrom+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + poemColumns + poemFrom + where +
		` ORDER BY pm.position ASC, pm.title ASC LIMIT ? OFFSET ?`
	args = append(args, params.Limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	poems := []*domain.Poem{}
	for rows.Next() {
		poem, err := scanPoem(rows)
		if err != nil {
			return nil, err
		}
		poems = append(poems, poem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return paginate(poems, total, offset, params.Limit), nil
}

// ListPoemsByBook returns all poems of one book in reading order.
func (s *Store) ListPoemsByBook(ctx context.Context, bookID string) ([]*domain.Poem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+poemColumns+poemFrom+` WHERE pm.book_id = ?
		 ORDER BY pm.position ASC, pm.title ASC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	poems := []*domain.Poem{}
	for rows.Next() {
		poem, err := scanPoem(rows)
		if err != nil {
			return nil, err
		}
		poems = append(poems, poem)
	}
	return poems, rows.Err()
}

// ListAllPoems returns every poem. Used for index rebuilds.
func (s *Store) ListAllPoems(ctx context.Context) ([]*domain.Poem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+poemColumns+poemFrom+` ORDER BY pm.book_id, pm.position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	poems := []*domain.Poem{}
	for rows.Next() {
		poem, err := scanPoem(rows)
		if err != nil {
			return nil, err
		}
		poems = append(poems, poem)
	}
	return poems, rows.Err()
}

// PreviousPoem returns the poem immediately before the given position in the
// book, or store.ErrNotFound at the start. Ties on position break by title,
// mirroring the listing order.
func (s *Store) PreviousPoem(ctx context.Context, bookID string, order int) (*domain.Poem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+poemColumns+poemFrom+` WHERE pm.book_id = ? AND pm.position < ?
		 ORDER BY pm.position DESC, pm.title DESC LIMIT 1`, bookID, order)

	poem, err := scanPoem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("no previous poem")
	}
	return poem, err
}

// NextPoem returns the poem immediately after the given position in the
// book, or store.ErrNotFound at the end.
func (s *Store) NextPoem(ctx context.Context, bookID string, order int) (*domain.Poem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+poemColumns+poemFrom+` WHERE pm.book_id = ? AND pm.position > ?
		 ORDER BY pm.position ASC, pm.title ASC LIMIT 1`, bookID, order)

	poem, err := scanPoem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("no next poem")
	}
	return poem, err
}

// IncrementPoemViews bumps the poem's view counter by one.
func (s *Store) IncrementPoemViews(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE poems SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("poem not found")
	}
	return nil
}
