package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"mdstash/internal/domain"
	"mdstash/internal/metadata"
	"mdstash/internal/models"
	"mdstash/internal/storage/blob"
)

// FileService handles file creation, viewing, renaming, deletion, and
// listing. Content lives in the object store; metadata in the metadata store.
type FileService struct {
	meta    *metadata.Store
	blobs   blob.Store
	history *HistoryService
	logger  *slog.Logger
	now     func() time.Time
}

// NewFileService creates a file service.
func NewFileService(meta *metadata.Store, blobs blob.Store, history *HistoryService, logger *slog.Logger) *FileService {
	return &FileService{
		meta:    meta,
		blobs:   blobs,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// Create stores a new file from an upload or a paste. Content is required.
// A paste without a filename gets a timestamped default; an upload must
// carry its original name.
func (s *FileService) Create(ctx context.Context, filename string, content []byte, source models.Source) (*models.FileMeta, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("content: %w", domain.ErrValidation)
	}

	filename = strings.TrimSpace(filename)
	if filename == "" {
		if source != models.SourcePaste {
			return nil, fmt.Errorf("filename: %w", domain.ErrValidation)
		}
		filename = "paste-" + s.now().Format("2006-01-02-150405") + ".md"
	}

	id := models.NewFileID()
	if err := s.blobs.Put(ctx, models.BlobKey(id), content); err != nil {
		return nil, fmt.Errorf("store content: %w", err)
	}

	now := s.now()
	meta := &models.FileMeta{
		ID:             id,
		Filename:       filename,
		Source:         source,
		Size:           int64(len(content)),
		Created:        now,
		LastAccessedAt: &now,
	}
	if err := s.meta.PutFile(ctx, meta); err != nil {
		return nil, err
	}

	if err := s.history.RecordView(ctx, id, filename, source); err != nil {
		s.logger.Warn("record creation in history failed", "id", id, "error", err)
	}

	s.logger.Info("file created", "id", id, "filename", filename, "source", source, "size", meta.Size)
	return meta, nil
}

// View returns a file's metadata and content, refreshing its history
// position and last-accessed timestamp. Viewing an archived file
// un-archives it.
func (s *FileService) View(ctx context.Context, id string) (*models.FileMeta, []byte, error) {
	meta, err := s.meta.GetFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	content, ok, err := s.blobs.Get(ctx, models.BlobKey(id))
	if err != nil {
		return nil, nil, fmt.Errorf("read content: %w", err)
	}
	if !ok {
		return nil, nil, fmt.Errorf("content for file %s: %w", id, domain.ErrNotFound)
	}

	if err := s.history.RecordView(ctx, id, meta.Filename, meta.Source); err != nil {
		s.logger.Warn("record view failed", "id", id, "error", err)
	}

	// Mirror the refresh locally so the caller sees the post-view state.
	now := s.now()
	meta.LastAccessedAt = &now
	meta.ArchivedAt = nil

	return meta, content, nil
}

// Rename changes a file's display name and refreshes the denormalized
// filename snapshot on its history entry without changing its position.
func (s *FileService) Rename(ctx context.Context, id, filename string) (*models.FileMeta, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, fmt.Errorf("filename: %w", domain.ErrValidation)
	}

	meta, err := s.meta.GetFile(ctx, id)
	if err != nil {
		return nil, err
	}
	meta.Filename = filename
	if err := s.meta.PutFile(ctx, meta); err != nil {
		return nil, err
	}

	entries, err := s.meta.History(ctx)
	if err != nil {
		s.logger.Warn("read history failed", "id", id, "error", err)
		return meta, nil
	}
	for i := range entries {
		if entries[i].ID == id {
			entries[i].Filename = filename
			if err := s.meta.SaveHistory(ctx, entries); err != nil {
				s.logger.Warn("refresh history filename failed", "id", id, "error", err)
			}
			break
		}
	}
	return meta, nil
}

// Delete removes a file's blob, metadata record, and history entry. Folder
// membership lists are not eagerly repaired; read paths filter the dangling
// id until the next folder deletion or retention sweep.
func (s *FileService) Delete(ctx context.Context, id string) error {
	if _, err := s.meta.GetFile(ctx, id); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, models.BlobKey(id)); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if err := s.meta.DeleteFile(ctx, id); err != nil {
		return err
	}
	if err := s.history.Remove(ctx, id); err != nil {
		return err
	}

	s.logger.Info("file deleted", "id", id)
	return nil
}

// List returns every non-archived file, most recently accessed first.
func (s *FileService) List(ctx context.Context) ([]*models.FileMeta, error) {
	metas, err := s.meta.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*models.FileMeta, 0, len(metas))
	for _, meta := range metas {
		if meta.Archived() {
			continue
		}
		visible = append(visible, meta)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		ti, _ := visible[i].ReferenceTime()
		tj, _ := visible[j].ReferenceTime()
		return ti.After(tj)
	})
	return visible, nil
}
