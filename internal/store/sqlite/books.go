package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

// bookColumns joins poets for the denormalized poet name and slug.
// Must match the scan order in scanBook.
const bookColumns = `b.id, b.title, b.slug, b.poet_id, b.description,
	b.publication_date, b.view_count, b.created_at, b.updated_at,
	p.name, p.slug`

const bookFrom = ` FROM books b JOIN poets p ON p.id = b.poet_id`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		publicationDate sql.NullString
		createdAt       string
		updatedAt       string
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&b.Slug,
		&b.PoetID,
		&b.Description,
		&publicationDate,
		&b.ViewCount,
		&createdAt,
		&updatedAt,
		&b.PoetName,
		&b.PoetSlug,
	)
	if err != nil {
		return nil, err
	}

	if b.PublicationDate, err = parseNullableTime(publicationDate); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBook inserts a new book.
// Returns store.ErrAlreadyExists if the ID or slug is already taken.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, title, slug, poet_id, description,
			publication_date, view_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		book.Slug,
		book.PoetID,
		book.Description,
		nullTimeString(book.PublicationDate),
		book.ViewCount,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage(fmt.Sprintf("book slug %q already exists", book.Slug)).WithCause(err)
		}
		return err
	}

	if err := s.searchIndexer.IndexBook(ctx, book); err != nil {
		s.logger.Warn("failed to index book", "book_id", book.ID, "error", err)
	}

	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+bookFrom+` WHERE b.id = ?`, id)

	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("book not found")
	}
	return book, err
}

// GetBookBySlug retrieves a book by slug.
func (s *Store) GetBookBySlug(ctx context.Context, slug string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+bookFrom+` WHERE b.slug = ?`, slug)

	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("book not found")
	}
	return book, err
}

// BookSlugExists reports whether any book already uses the slug.
func (s *Store) BookSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists != 0, nil
}

// UpdateBook updates an existing book. Slug and poet_id never change after
// creation and are not part of the statement.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET title = ?, description = ?, publication_date = ?, updated_at = ?
		WHERE id = ?`,
		book.Title,
		book.Description,
		nullTimeString(book.PublicationDate),
		formatTime(book.UpdatedAt),
		book.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("book not found")
	}

	if err := s.searchIndexer.IndexBook(ctx, book); err != nil {
		s.logger.Warn("failed to reindex book", "book_id", book.ID, "error", err)
	}

	return nil
}

// DeleteBook removes a book and, via cascade, its poems.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	// Collect poem IDs first so the cascaded rows can be deindexed.
	poemIDs, err := s.queryIDs(ctx, `SELECT id FROM poems WHERE book_id = ?`, id)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("book not found")
	}

	if err := s.searchIndexer.DeleteBook(ctx, id); err != nil {
		s.logger.Warn("failed to remove book from index", "book_id", id, "error", err)
	}
	for _, poemID := range poemIDs {
		if err := s.searchIndexer.DeletePoem(ctx, poemID); err != nil {
			s.logger.Warn("failed to remove poem from index", "poem_id", poemID, "error", err)
		}
	}

	return nil
}

// ListBooks returns a paginated book listing, newest publication first.
// Books without a publication date sort last.
func (s *Store) ListBooks(ctx context.Context, filter store.BookFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Book], error) {
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
		addClause(`(lower(b.title) LIKE ? ESCAPE '\' OR lower(b.description) LIKE ? ESCAPE '\' OR lower(p.name) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}
	if filter.PoetSlug != "" {
		addClause(`p.slug = ?`, filter.PoetSlug)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+bookFrom+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + bookColumns + bookFrom + where +
		` ORDER BY b.publication_date IS NULL, b.publication_date DESC, b.title ASC LIMIT ? OFFSET ?`
	args = append(args, params.Limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return paginate(books, total, offset, params.Limit), nil
}

// ListBooksByPoet returns all books of one poet, newest publication first.
func (s *Store) ListBooksByPoet(ctx context.Context, poetID string) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+bookFrom+` WHERE b.poet_id = ?
		 ORDER BY b.publication_date IS NULL, b.publication_date DESC, b.title ASC`, poetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// ListAllBooks returns every book. Used for index rebuilds.
func (s *Store) ListAllBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+bookFrom+` ORDER BY b.title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// IncrementBookViews bumps the book's view counter by one.
func (s *Store) IncrementBookViews(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("book not found")
	}
	return nil
}
