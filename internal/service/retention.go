package service

import (
	"context"
	"log/slog"
	"time"

	"mdstash/internal/metadata"
	"mdstash/internal/models"
	"mdstash/internal/storage/blob"
)

// RetentionConfig holds the aging thresholds.
type RetentionConfig struct {
	// ArchiveAge is the idle time after which an unfiled file is archived.
	ArchiveAge time.Duration
	// DeleteAge is the idle time after which an unfiled file is deleted.
	DeleteAge time.Duration
}

// DefaultRetentionConfig archives after 30 days and deletes after 60.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		ArchiveAge: 30 * 24 * time.Hour,
		DeleteAge:  60 * 24 * time.Hour,
	}
}

// RetentionEngine promotes aging, unfiled files through
// Active -> Archived -> Deleted on a periodic sweep. Files filed into a
// live folder are exempt from aging entirely.
type RetentionEngine struct {
	meta   *metadata.Store
	blobs  blob.Store
	cfg    RetentionConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewRetentionEngine creates a retention engine.
func NewRetentionEngine(meta *metadata.Store, blobs blob.Store, cfg RetentionConfig, logger *slog.Logger) *RetentionEngine {
	return &RetentionEngine{
		meta:   meta,
		blobs:  blobs,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// decision classifies one file metadata record at sweep time.
type decision int

const (
	// decisionNone leaves the record as it is.
	decisionNone decision = iota
	// decisionSkip means the record carries no usable reference time.
	decisionSkip
	// decisionExempt means the file is filed into a live folder.
	decisionExempt
	// decisionArchive sets archivedAt.
	decisionArchive
	// decisionDelete removes blob and metadata.
	decisionDelete
)

// classify is the pure retention state function. clearFolder reports that
// the record carries a folderId pointing at a folder that no longer exists;
// the caller clears it and the record still ages in this same pass, so a
// dangling reference never grants permanent immunity. A live folderId wins
// over any age: exemption suppresses new aging actions, but deliberately
// does not clear a stale archivedAt left from before the file was filed.
func classify(now time.Time, meta *models.FileMeta, validFolders map[string]bool, cfg RetentionConfig) (decision, bool) {
	ref, ok := meta.ReferenceTime()
	if !ok {
		return decisionSkip, false
	}

	clearFolder := false
	if meta.FolderID != "" {
		if validFolders[meta.FolderID] {
			return decisionExempt, false
		}
		clearFolder = true
	}

	age := now.Sub(ref)
	switch {
	case age >= cfg.DeleteAge:
		return decisionDelete, clearFolder
	case age >= cfg.ArchiveAge && meta.ArchivedAt == nil:
		// Already-archived records keep their original archive timestamp.
		return decisionArchive, clearFolder
	}
	return decisionNone, clearFolder
}

// Sweep runs one full pass over every file metadata record. It is idempotent
// and safely re-entrant: every mutation sets a field only when absent or
// deletes keys that may already be gone.
func (e *RetentionEngine) Sweep(ctx context.Context) error {
	return e.sweep(ctx, e.now())
}

func (e *RetentionEngine) sweep(ctx context.Context, now time.Time) error {
	folders, err := e.meta.Folders(ctx)
	if err != nil {
		return err
	}
	validFolders := make(map[string]bool, len(folders))
	for _, folder := range folders {
		validFolders[folder.ID] = true
	}

	metas, err := e.meta.ListFiles(ctx)
	if err != nil {
		return err
	}

	var archived, reclaimed int
	deleted := make(map[string]bool)

	for _, meta := range metas {
		d, clearFolder := classify(now, meta, validFolders, e.cfg)
		if clearFolder {
			meta.FolderID = ""
			reclaimed++
		}

		switch d {
		case decisionDelete:
			if err := e.blobs.Delete(ctx, models.BlobKey(meta.ID)); err != nil {
				e.logger.Warn("delete blob failed", "id", meta.ID, "error", err)
			}
			if err := e.meta.DeleteFile(ctx, meta.ID); err != nil {
				e.logger.Warn("delete file metadata failed", "id", meta.ID, "error", err)
				continue
			}
			deleted[meta.ID] = true

		case decisionArchive:
			meta.ArchivedAt = &now
			if err := e.meta.PutFile(ctx, meta); err != nil {
				e.logger.Warn("archive file failed", "id", meta.ID, "error", err)
				continue
			}
			archived++

		case decisionNone:
			if clearFolder {
				if err := e.meta.PutFile(ctx, meta); err != nil {
					e.logger.Warn("clear stale folder reference failed", "id", meta.ID, "error", err)
				}
			}

		case decisionSkip, decisionExempt:
			// Nothing to do.
		}
	}

	if len(deleted) > 0 {
		entries, err := e.meta.History(ctx)
		if err != nil {
			return err
		}
		kept := entries[:0]
		for _, entry := range entries {
			if !deleted[entry.ID] {
				kept = append(kept, entry)
			}
		}
		if err := e.meta.SaveHistory(ctx, kept); err != nil {
			return err
		}
	}

	e.logger.Info("retention sweep complete",
		"scanned", len(metas),
		"archived", archived,
		"deleted", len(deleted),
		"reclaimed", reclaimed,
	)
	return nil
}

// Start runs a sweep immediately and then on every tick until the context is
// cancelled. The sweep never blocks a request path.
func (e *RetentionEngine) Start(ctx context.Context, interval time.Duration) {
	if err := e.Sweep(ctx); err != nil {
		e.logger.Error("retention sweep failed", "error", err)
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := e.Sweep(ctx); err != nil {
					e.logger.Error("retention sweep failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
