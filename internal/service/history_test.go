package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdstash/internal/models"
)

func TestHistoryCap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < HistoryLimit+20; i++ {
		id := fmt.Sprintf("id-%03d", i)
		require.NoError(t, f.history.RecordView(ctx, id, id+".md", models.SourcePaste))
		f.advance(time.Second)
	}

	entries, err := f.meta.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, HistoryLimit)

	// Most recent first, oldest 20 evicted.
	assert.Equal(t, fmt.Sprintf("id-%03d", HistoryLimit+19), entries[0].ID)
	assert.Equal(t, "id-020", entries[HistoryLimit-1].ID)
}

func TestHistoryDedup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.history.RecordView(ctx, "a", "a.md", models.SourcePaste))
	firstView := f.clock
	f.advance(time.Minute)
	require.NoError(t, f.history.RecordView(ctx, "b", "b.md", models.SourceUpload))
	f.advance(time.Minute)
	require.NoError(t, f.history.RecordView(ctx, "a", "a.md", models.SourcePaste))

	entries, err := f.meta.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
	assert.True(t, entries[0].ViewedAt.After(firstView), "viewedAt refreshed on re-view")
}

func TestRecordViewUnarchives(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	archivedAt := f.clock.Add(-time.Hour)
	created := f.clock.Add(-48 * time.Hour)
	require.NoError(t, f.meta.PutFile(ctx, &models.FileMeta{
		ID:             "a",
		Filename:       "a.md",
		Source:         models.SourceUpload,
		Created:        created,
		LastAccessedAt: &created,
		ArchivedAt:     &archivedAt,
	}))

	require.NoError(t, f.history.RecordView(ctx, "a", "a.md", models.SourceUpload))

	meta, err := f.meta.GetFile(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, meta.ArchivedAt, "archive mark cleared on view")
	require.NotNil(t, meta.LastAccessedAt)
	assert.True(t, meta.LastAccessedAt.Equal(f.clock))
}

func TestRecordViewMissingMetadataStillWritesHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.history.RecordView(ctx, "ghost", "ghost.md", models.SourcePaste))

	entries, err := f.meta.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ghost", entries[0].ID)
}

func TestHistoryListFiltersArchivedAndMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	live, err := f.files.Create(ctx, "live.md", []byte("# live"), models.SourceUpload)
	require.NoError(t, err)
	archived, err := f.files.Create(ctx, "archived.md", []byte("# archived"), models.SourceUpload)
	require.NoError(t, err)
	require.NoError(t, f.history.RecordView(ctx, "gone", "gone.md", models.SourcePaste))

	// Archive one file behind history's back.
	meta, err := f.meta.GetFile(ctx, archived.ID)
	require.NoError(t, err)
	now := f.clock
	meta.ArchivedAt = &now
	require.NoError(t, f.meta.PutFile(ctx, meta))

	visible, err := f.history.List(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, live.ID, visible[0].ID)

	// The stored list is filtered at read time, not rewritten.
	stored, err := f.meta.History(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestHistoryRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.files.Create(ctx, "a.md", []byte("a"), models.SourcePaste)
	require.NoError(t, err)
	_, err = f.files.Create(ctx, "b.md", []byte("b"), models.SourcePaste)
	require.NoError(t, err)

	require.NoError(t, f.history.Remove(ctx, a.ID))
	entries, err := f.meta.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Removing an entry leaves the file itself alone.
	_, err = f.meta.GetFile(ctx, a.ID)
	assert.NoError(t, err)

	require.NoError(t, f.history.Clear(ctx))
	entries, err = f.meta.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
