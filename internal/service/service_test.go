package service

import (
	"log/slog"
	"testing"
	"time"

	"mdstash/internal/metadata"
	"mdstash/internal/storage/blob"
	"mdstash/internal/storage/kv"
)

// fixture wires every service over in-memory stores with a controllable
// clock, so retention scenarios run without a real one.
type fixture struct {
	kv        *kv.Memory
	blobs     *blob.Memory
	meta      *metadata.Store
	history   *HistoryService
	files     *FileService
	folders   *FolderService
	retention *RetentionEngine

	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	kvStore := kv.NewMemory()
	blobs := blob.NewMemory()
	meta := metadata.NewStore(kvStore, logger)

	f := &fixture{
		kv:    kvStore,
		blobs: blobs,
		meta:  meta,
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	f.history = NewHistoryService(meta, logger)
	f.files = NewFileService(meta, blobs, f.history, logger)
	f.folders = NewFolderService(meta, blobs, logger)
	f.retention = NewRetentionEngine(meta, blobs, DefaultRetentionConfig(), logger)

	now := func() time.Time { return f.clock }
	f.history.now = now
	f.files.now = now
	f.folders.now = now
	f.retention.now = now

	return f
}

// advance moves the fixture clock forward.
func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}
