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

const day = 24 * time.Hour

func TestSweepArchivesThenDeletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	meta, err := f.files.Create(ctx, "a.md", []byte("# a"), models.SourcePaste)
	require.NoError(t, err)
	createdAt := f.clock

	// 31 days idle: archived, blob retained, hidden from listings.
	f.advance(31 * day)
	require.NoError(t, f.retention.Sweep(ctx))

	stored, err := f.meta.GetFile(ctx, meta.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ArchivedAt)
	assert.True(t, stored.ArchivedAt.Equal(createdAt.Add(31*day)))

	visible, err := f.history.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, visible)

	listed, err := f.files.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, ok, err := f.blobs.Get(ctx, models.BlobKey(meta.ID))
	require.NoError(t, err)
	assert.True(t, ok, "blob retained while archived")

	// 61 days idle: blob, metadata, and history entry permanently removed.
	f.advance(30 * day)
	require.NoError(t, f.retention.Sweep(ctx))

	_, ok, err = f.blobs.Get(ctx, models.BlobKey(meta.ID))
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = f.meta.GetFile(ctx, meta.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	entries, err := f.meta.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSweepIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	meta, err := f.files.Create(ctx, "a.md", []byte("# a"), models.SourcePaste)
	require.NoError(t, err)

	f.advance(31 * day)
	require.NoError(t, f.retention.Sweep(ctx))

	first, err := f.meta.GetFile(ctx, meta.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ArchivedAt)

	// A later sweep leaves the original archive timestamp untouched.
	f.advance(2 * day)
	require.NoError(t, f.retention.Sweep(ctx))

	second, err := f.meta.GetFile(ctx, meta.ID)
	require.NoError(t, err)
	require.NotNil(t, second.ArchivedAt)
	assert.True(t, second.ArchivedAt.Equal(*first.ArchivedAt))

	// Back-to-back sweeps past the delete threshold are safe.
	f.advance(60 * day)
	require.NoError(t, f.retention.Sweep(ctx))
	require.NoError(t, f.retention.Sweep(ctx))
}

func TestSweepExemptsFiledFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	folder, err := f.folders.Create(ctx, "keep")
	require.NoError(t, err)
	meta, err := f.files.Create(ctx, "b.md", []byte("# b"), models.SourcePaste)
	require.NoError(t, err)
	require.NoError(t, f.folders.AddFile(ctx, folder.ID, meta.ID))

	f.advance(90 * day)
	require.NoError(t, f.retention.Sweep(ctx))

	stored, err := f.meta.GetFile(ctx, meta.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ArchivedAt, "filed file is never aged")
	_, ok, err := f.blobs.Get(ctx, models.BlobKey(meta.ID))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUnfilingResumesAgingFromOriginalAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	folder, err := f.folders.Create(ctx, "keep")
	require.NoError(t, err)
	meta, err := f.files.Create(ctx, "b.md", []byte("# b"), models.SourcePaste)
	require.NoError(t, err)
	require.NoError(t, f.folders.AddFile(ctx, folder.ID, meta.ID))

	// 90 idle days while filed, then unfiled: age counts from the original
	// lastAccessedAt, not from the removal, so the next sweep deletes.
	f.advance(90 * day)
	require.NoError(t, f.folders.RemoveFile(ctx, folder.ID, meta.ID))
	require.NoError(t, f.retention.Sweep(ctx))

	_, err = f.meta.GetFile(ctx, meta.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSweepReclaimsStaleFolderReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	meta, err := f.files.Create(ctx, "c.md", []byte("# c"), models.SourcePaste)
	require.NoError(t, err)

	// Point the record at a folder that never existed.
	stored, err := f.meta.GetFile(ctx, meta.ID)
	require.NoError(t, err)
	stored.FolderID = "folder-ghost"
	require.NoError(t, f.meta.PutFile(ctx, stored))

	// The dangling reference is cleared and the record ages in the same
	// pass rather than waiting for the next run.
	f.advance(31 * day)
	require.NoError(t, f.retention.Sweep(ctx))

	stored, err = f.meta.GetFile(ctx, meta.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.FolderID)
	assert.NotNil(t, stored.ArchivedAt)
}

func TestSweepSkipsRecordsWithoutTimestamps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.meta.PutFile(ctx, &models.FileMeta{
		ID:       "timeless",
		Filename: "x.md",
		Source:   models.SourceUpload,
	}))

	f.advance(365 * day)
	require.NoError(t, f.retention.Sweep(ctx))

	_, err := f.meta.GetFile(ctx, "timeless")
	assert.NoError(t, err, "record without timestamps is never classified")
}

func TestClassifyExemptionDoesNotClearStaleArchiveMark(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	old := now.Add(-45 * day)
	archivedAt := now.Add(-10 * day)

	meta := &models.FileMeta{
		ID:             "x",
		Created:        old,
		LastAccessedAt: &old,
		ArchivedAt:     &archivedAt,
		FolderID:       "folder-live",
	}

	d, clear := classify(now, meta, map[string]bool{"folder-live": true}, DefaultRetentionConfig())
	assert.Equal(t, decisionExempt, d)
	assert.False(t, clear)
	assert.NotNil(t, meta.ArchivedAt, "filing does not retroactively un-archive")
}
