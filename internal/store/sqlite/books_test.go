package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/store"
)

func makeTestBook(id, title, slug, poetID string) *domain.Book {
	now := time.Now()
	return &domain.Book{
		Record: domain.Record{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:  title,
		Slug:   slug,
		PoetID: poetID,
	}
}

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Ҳофизи Шерозӣ", "hofizi-sherozi")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}

	pub := time.Date(1368, 1, 1, 0, 0, 0, 0, time.UTC)
	b := makeTestBook("book-1", "Девони Ҳофиз", "devoni-hofiz", "poet-1")
	b.Description = "Collected ghazals."
	b.PublicationDate = &pub

	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != b.Title {
		t.Errorf("Title: got %q, want %q", got.Title, b.Title)
	}
	if got.PoetID != "poet-1" {
		t.Errorf("PoetID: got %q", got.PoetID)
	}
	if got.PublicationDate == nil || !got.PublicationDate.Equal(pub) {
		t.Errorf("PublicationDate: got %v, want %v", got.PublicationDate, pub)
	}

	// Denormalized poet fields come from the join.
	if got.PoetName != "Ҳофизи Шерозӣ" {
		t.Errorf("PoetName: got %q", got.PoetName)
	}
	if got.PoetSlug != "hofizi-sherozi" {
		t.Errorf("PoetSlug: got %q", got.PoetSlug)
	}

	bySlug, err := s.GetBookBySlug(ctx, "devoni-hofiz")
	if err != nil {
		t.Fatalf("GetBookBySlug: %v", err)
	}
	if bySlug.ID != "book-1" {
		t.Errorf("GetBookBySlug ID: got %q", bySlug.ID)
	}
}

func TestCreateBook_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Ҳофиз", "hofiz")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}
	if err := s.CreateBook(ctx, makeTestBook("book-1", "Девон", "devon", "poet-1")); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	// Book slugs are globally unique, even across poets.
	if err := s.CreatePoet(ctx, makeTestPoet("poet-2", "Саъдӣ", "sadi")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}
	err := s.CreateBook(ctx, makeTestBook("book-2", "Девон", "devon", "poet-2"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateBook_MissingPoet(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateBook(context.Background(), makeTestBook("book-1", "Девон", "devon", "poet-missing"))
	if err == nil {
		t.Fatal("expected foreign key error, got nil")
	}
}

func TestBookSlugExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Ҳофиз", "hofiz")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}
	if err := s.CreateBook(ctx, makeTestBook("book-1", "Девон", "devon", "poet-1")); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	exists, err := s.BookSlugExists(ctx, "devon")
	if err != nil {
		t.Fatalf("BookSlugExists: %v", err)
	}
	if !exists {
		t.Error("expected slug to be taken")
	}

	exists, err = s.BookSlugExists(ctx, "devon-1")
	if err != nil {
		t.Fatalf("BookSlugExists: %v", err)
	}
	if exists {
		t.Error("expected slug to be free")
	}
}

func TestUpdateBook_SlugImmutable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Ҳофиз", "hofiz")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}
	b := makeTestBook("book-1", "Девон", "devon", "poet-1")
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	b.Title = "Девони Ҳофиз"
	b.Slug = "different"
	b.Touch()
	if err := s.UpdateBook(ctx, b); err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != "Девони Ҳофиз" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.Slug != "devon" {
		t.Errorf("Slug changed on update: got %q", got.Slug)
	}
}

func TestListBooks_OrderAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Ҳофиз", "hofiz")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}
	if err := s.CreatePoet(ctx, makeTestPoet("poet-2", "Рӯдакӣ", "rudaki")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}

	old := time.Date(900, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(1390, 1, 1, 0, 0, 0, 0, time.UTC)

	b1 := makeTestBook("book-1", "Девони Ҳофиз", "devoni-hofiz", "poet-1")
	b1.PublicationDate = &recent
	b2 := makeTestBook("book-2", "Қасидаҳо", "qasidaho", "poet-2")
	b2.PublicationDate = &old
	b3 := makeTestBook("book-3", "Рубоиёт", "ruboiyot", "poet-2") // no publication date
	for _, b := range []*domain.Book{b1, b2, b3} {
		if err := s.CreateBook(ctx, b); err != nil {
			t.Fatalf("CreateBook %s: %v", b.ID, err)
		}
	}

	// Newest publication first; undated books last.
	result, err := s.ListBooks(ctx, store.BookFilter{}, store.DefaultPaginationParams())
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if len(result.Items) != 3 {
		t.Fatalf("Items: got %d, want 3", len(result.Items))
	}
	wantOrder := []string{"book-1", "book-2", "book-3"}
	for i, want := range wantOrder {
		if result.Items[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, result.Items[i].ID, want)
		}
	}

	// Filter by poet slug.
	result, err = s.ListBooks(ctx, store.BookFilter{PoetSlug: "rudaki"}, store.DefaultPaginationParams())
	if err != nil {
		t.Fatalf("ListBooks by poet: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("poet filter: got %d items, want 2", len(result.Items))
	}

	// Query matches poet name too.
	result, err = s.ListBooks(ctx, store.BookFilter{Query: "Ҳофиз"}, store.DefaultPaginationParams())
	if err != nil {
		t.Fatalf("ListBooks query: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "book-1" {
		t.Fatalf("poet name query: got %d items", len(result.Items))
	}

	// Query and poet filter compose with AND.
	result, err = s.ListBooks(ctx, store.BookFilter{Query: "Ҳофиз", PoetSlug: "rudaki"}, store.DefaultPaginationParams())
	if err != nil {
		t.Fatalf("ListBooks composed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("composed filter: got %d items, want 0", len(result.Items))
	}
}

func TestListBooksByPoet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Рӯдакӣ", "rudaki")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}
	if err := s.CreateBook(ctx, makeTestBook("book-1", "Қасидаҳо", "qasidaho", "poet-1")); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if err := s.CreateBook(ctx, makeTestBook("book-2", "Рубоиёт", "ruboiyot", "poet-1")); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	books, err := s.ListBooksByPoet(ctx, "poet-1")
	if err != nil {
		t.Fatalf("ListBooksByPoet: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}

	books, err = s.ListBooksByPoet(ctx, "poet-missing")
	if err != nil {
		t.Fatalf("ListBooksByPoet: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("got %d books for missing poet, want 0", len(books))
	}
}

func TestIncrementBookViews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreatePoet(ctx, makeTestPoet("poet-1", "Ҳофиз", "hofiz")); err != nil {
		t.Fatalf("CreatePoet: %v", err)
	}
	if err := s.CreateBook(ctx, makeTestBook("book-1", "Девон", "devon", "poet-1")); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := s.IncrementBookViews(ctx, "book-1"); err != nil {
			t.Fatalf("IncrementBookViews: %v", err)
		}
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.ViewCount != 3 {
		t.Errorf("ViewCount: got %d, want 3", got.ViewCount)
	}
}
