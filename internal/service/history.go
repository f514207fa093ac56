package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mdstash/internal/domain"
	"mdstash/internal/metadata"
	"mdstash/internal/models"
)

// HistoryLimit caps the global view-history list at the most recent entries.
const HistoryLimit = 100

// HistoryService maintains the recency-ordered view history and the per-file
// last-accessed timestamps that drive retention.
type HistoryService struct {
	meta   *metadata.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewHistoryService creates a history service.
func NewHistoryService(meta *metadata.Store, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		meta:   meta,
		logger: logger,
		now:    time.Now,
	}
}

// RecordView moves a fresh entry for id to the front of the history list and
// refreshes the file's last-accessed timestamp, clearing any archive mark.
// This is the only path that resets the retention clock and reverses
// archival. The metadata refresh is best-effort: a missing or corrupt record,
// or a failed write, never blocks the history update.
func (s *HistoryService) RecordView(ctx context.Context, id, filename string, source models.Source) error {
	now := s.now()

	if meta, err := s.meta.GetFile(ctx, id); err == nil {
		meta.LastAccessedAt = &now
		meta.ArchivedAt = nil
		if err := s.meta.PutFile(ctx, meta); err != nil {
			s.logger.Warn("refresh last-accessed failed", "id", id, "error", err)
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("read file metadata failed", "id", id, "error", err)
	}

	entries, err := s.meta.History(ctx)
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}

	fresh := models.HistoryEntry{
		ID:       id,
		Filename: filename,
		Source:   source,
		ViewedAt: now,
	}

	updated := make([]models.HistoryEntry, 0, len(entries)+1)
	updated = append(updated, fresh)
	for _, entry := range entries {
		if entry.ID == id {
			continue
		}
		updated = append(updated, entry)
	}
	if len(updated) > HistoryLimit {
		updated = updated[:HistoryLimit]
	}

	return s.meta.SaveHistory(ctx, updated)
}

// List returns history entries most recent first, excluding entries whose
// backing file is archived or gone. The stored list is only filtered here,
// never rewritten.
func (s *HistoryService) List(ctx context.Context) ([]models.HistoryEntry, error) {
	entries, err := s.meta.History(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]models.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		meta, err := s.meta.GetFile(ctx, entry.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if meta.Archived() {
			continue
		}
		visible = append(visible, entry)
	}
	return visible, nil
}

// Remove deletes the entry for id, if present. File metadata and blobs are
// untouched.
func (s *HistoryService) Remove(ctx context.Context, id string) error {
	entries, err := s.meta.History(ctx)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	return s.meta.SaveHistory(ctx, kept)
}

// Clear empties the history list.
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.meta.SaveHistory(ctx, nil)
}
