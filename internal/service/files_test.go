package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdstash/internal/domain"
	"mdstash/internal/models"
)

func TestFileCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.files.Create(ctx, "a.md", nil, models.SourcePaste)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.files.Create(ctx, "a.md", []byte("  \n\t "), models.SourcePaste)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.files.Create(ctx, "", []byte("# hi"), models.SourceUpload)
	assert.ErrorIs(t, err, domain.ErrValidation, "uploads must carry a filename")
}

func TestFileCreatePasteDefaultsFilename(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	meta, err := f.files.Create(ctx, "", []byte("# scratch"), models.SourcePaste)
	require.NoError(t, err)
	assert.Equal(t, "paste-2026-01-01-000000.md", meta.Filename)
	assert.Equal(t, models.SourcePaste, meta.Source)
	assert.EqualValues(t, len("# scratch"), meta.Size)
}

func TestFileCreateWritesEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	meta, err := f.files.Create(ctx, "doc.md", []byte("# doc"), models.SourceUpload)
	require.NoError(t, err)

	content, ok, err := f.blobs.Get(ctx, models.BlobKey(meta.ID))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "# doc", string(content))

	stored, err := f.meta.GetFile(ctx, meta.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastAccessedAt)
	assert.True(t, stored.Created.Equal(f.clock))

	entries, err := f.meta.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, meta.ID, entries[0].ID)
}

func TestViewRefreshesAndUnarchives(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	meta, err := f.files.Create(ctx, "doc.md", []byte("# doc"), models.SourceUpload)
	require.NoError(t, err)

	// Archive it out-of-band.
	stored, err := f.meta.GetFile(ctx, meta.ID)
	require.NoError(t, err)
	now := f.clock
	stored.ArchivedAt = &now
	require.NoError(t, f.meta.PutFile(ctx, stored))

	f.advance(time.Hour)
	viewed, content, err := f.files.View(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, "# doc", string(content))
	assert.Nil(t, viewed.ArchivedAt)

	stored, err = f.meta.GetFile(ctx, meta.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ArchivedAt)
	require.NotNil(t, stored.LastAccessedAt)
	assert.True(t, stored.LastAccessedAt.Equal(f.clock))

	_, _, err = f.files.View(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRenameRefreshesHistorySnapshotInPlace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.files.Create(ctx, "first.md", []byte("1"), models.SourcePaste)
	require.NoError(t, err)
	f.advance(time.Minute)
	second, err := f.files.Create(ctx, "second.md", []byte("2"), models.SourcePaste)
	require.NoError(t, err)

	renamed, err := f.files.Rename(ctx, first.ID, "renamed.md")
	require.NoError(t, err)
	assert.Equal(t, "renamed.md", renamed.Filename)

	entries, err := f.meta.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Position preserved: second is still most recent.
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, "renamed.md", entries[1].Filename)

	// Size reflects creation-time content, untouched by rename.
	stored, err := f.meta.GetFile(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.Size)

	_, err = f.files.Rename(ctx, first.ID, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.files.Rename(ctx, "nope", "x.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	meta, err := f.files.Create(ctx, "doc.md", []byte("# doc"), models.SourceUpload)
	require.NoError(t, err)

	require.NoError(t, f.files.Delete(ctx, meta.ID))

	_, ok, err := f.blobs.Get(ctx, models.BlobKey(meta.ID))
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = f.meta.GetFile(ctx, meta.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	entries, err := f.meta.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, f.files.Delete(ctx, meta.ID), domain.ErrNotFound)
}

func TestFileListExcludesArchived(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	older, err := f.files.Create(ctx, "older.md", []byte("1"), models.SourcePaste)
	require.NoError(t, err)
	f.advance(time.Hour)
	newer, err := f.files.Create(ctx, "newer.md", []byte("2"), models.SourcePaste)
	require.NoError(t, err)
	f.advance(time.Hour)
	hidden, err := f.files.Create(ctx, "hidden.md", []byte("3"), models.SourcePaste)
	require.NoError(t, err)

	stored, err := f.meta.GetFile(ctx, hidden.ID)
	require.NoError(t, err)
	now := f.clock
	stored.ArchivedAt = &now
	require.NoError(t, f.meta.PutFile(ctx, stored))

	visible, err := f.files.List(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, newer.ID, visible[0].ID, "most recently accessed first")
	assert.Equal(t, older.ID, visible[1].ID)
}
