package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guftaho/guftaho-server/internal/search"
)

func newSearchService(t *testing.T) (*SearchService, *PoetService, *BookService, *PoemService) {
	t.Helper()
	st := newTestStore(t)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: t.TempDir(),
		Logger:   testLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	svc := NewSearchService(index, st, testLogger())
	st.SetSearchIndexer(svc)

	return svc,
		NewPoetService(st, testLogger()),
		NewBookService(st, testLogger()),
		NewPoemService(st, testLogger())
}

func TestSearch_CatalogWritesKeepIndexInSync(t *testing.T) {
	searchSvc, poets, books, poems := newSearchService(t)

	poet := seedPoet(t, poets, "Рӯдакӣ")
	book := seedBook(t, books, poet.Slug, "Девони Рӯдакӣ")
	seedPoem(t, poems, book.Slug, "Бӯи ҷӯи Мӯлиён", "Бӯи ҷӯи Мӯлиён ояд ҳаме", 1)

	// Searching the poet's name reaches the poet, the book, and the poem.
	result, err := searchSvc.Search(context.Background(), search.SearchParams{Query: "Рӯдакӣ"})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Total)

	// Deleting the poet cascades out of the index.
	require.NoError(t, poets.DeletePoet(context.Background(), poet.Slug))

	result, err = searchSvc.Search(context.Background(), search.SearchParams{Query: "Рӯдакӣ"})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), result.Total)
}

func TestSearch_ClampsPagination(t *testing.T) {
	searchSvc, poets, _, _ := newSearchService(t)
	seedPoet(t, poets, "Ҳофиз")

	result, err := searchSvc.Search(context.Background(), search.SearchParams{
		Query:  "Ҳофиз",
		Limit:  100000,
		Offset: -3,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
}

func TestReindexAll(t *testing.T) {
	searchSvc, poets, books, poems := newSearchService(t)

	poet := seedPoet(t, poets, "Ҳофиз")
	book := seedBook(t, books, poet.Slug, "Девон")
	seedPoem(t, poems, book.Slug, "Ғазал", "Ало ё айюҳассоқӣ", 1)

	require.NoError(t, searchSvc.ReindexAll(context.Background()))

	count, err := searchSvc.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}
