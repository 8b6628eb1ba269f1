package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guftaho/guftaho-server/internal/store"
)

func TestRecordReading_ClampsProgress(t *testing.T) {
	st, poets, books, poems := newCatalog(t)
	reading := NewReadingService(st, testLogger())

	user := seedUser(t, st, "reader@example.com")
	poet := seedPoet(t, poets, "Ҳофиз")
	book := seedBook(t, books, poet.Slug, "Девон")
	poem := seedPoem(t, poems, book.Slug, "Ғазал", "матн", 1)

	entry, err := reading.RecordReading(context.Background(), user.ID, RecordReadingRequest{
		PoemID:   poem.ID,
		Progress: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, entry.Progress)

	entry, err = reading.RecordReading(context.Background(), user.ID, RecordReadingRequest{
		PoemID:   poem.ID,
		Progress: -5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Progress)
}

func TestRecordReading_RepeatReadsRefreshOneRow(t *testing.T) {
	st, poets, books, poems := newCatalog(t)
	reading := NewReadingService(st, testLogger())

	user := seedUser(t, st, "reader@example.com")
	poet := seedPoet(t, poets, "Ҳофиз")
	book := seedBook(t, books, poet.Slug, "Девон")
	poem := seedPoem(t, poems, book.Slug, "Ғазал", "матн", 1)

	first, err := reading.RecordReading(context.Background(), user.ID, RecordReadingRequest{PoemID: poem.ID, Progress: 30})
	require.NoError(t, err)

	second, err := reading.RecordReading(context.Background(), user.ID, RecordReadingRequest{PoemID: poem.ID, Progress: 80})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 80, second.Progress)

	history, err := reading.ListReadingHistory(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, poem.Title, history[0].PoemTitle)
}

func TestRecordReading_UnknownPoem(t *testing.T) {
	st := newTestStore(t)
	reading := NewReadingService(st, testLogger())
	user := seedUser(t, st, "reader@example.com")

	_, err := reading.RecordReading(context.Background(), user.ID, RecordReadingRequest{
		PoemID:   "poem-missing",
		Progress: 10,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
