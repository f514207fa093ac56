// Package metadata is the typed record layer over the key/value metadata
// store. Three record kinds share one namespace: per-file metadata under
// meta:{id}, the global view history under "history", and the global folder
// list under "folders".
//
// A stored value that fails to parse is treated exactly like an absent value
// (missing record, empty list). The store self-heals by overwriting on the
// next successful write.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"mdstash/internal/domain"
	"mdstash/internal/models"
	"mdstash/internal/storage/kv"
)

const (
	filePrefix = "meta:"
	historyKey = "history"
	foldersKey = "folders"

	// listPageSize bounds one page of the meta:* key scan.
	listPageSize = 200
)

// FileKey returns the metadata key for a file id.
func FileKey(id string) string {
	return filePrefix + id
}

// Store reads and writes typed records.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
}

// NewStore creates a typed record store over the given key/value store.
func NewStore(kvStore kv.Store, logger *slog.Logger) *Store {
	return &Store{kv: kvStore, logger: logger}
}

// GetFile returns the metadata record for id. Absent and corrupt records
// both report domain.ErrNotFound.
func (s *Store) GetFile(ctx context.Context, id string) (*models.FileMeta, error) {
	value, ok, err := s.kv.Get(ctx, FileKey(id))
	if err != nil {
		return nil, fmt.Errorf("get file metadata: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	var meta models.FileMeta
	if err := json.Unmarshal([]byte(value), &meta); err != nil {
		s.logger.Warn("corrupt file metadata treated as absent", "id", id, "error", err)
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	return &meta, nil
}

// PutFile writes the metadata record for meta.ID.
func (s *Store) PutFile(ctx context.Context, meta *models.FileMeta) error {
	value, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode file metadata: %w", err)
	}
	if err := s.kv.Put(ctx, FileKey(meta.ID), string(value)); err != nil {
		return fmt.Errorf("put file metadata: %w", err)
	}
	return nil
}

// DeleteFile removes the metadata record for id. Absent records are fine.
func (s *Store) DeleteFile(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, FileKey(id)); err != nil {
		return fmt.Errorf("delete file metadata: %w", err)
	}
	return nil
}

// ListFiles scans every meta:* record via cursor pagination. Records that no
// longer exist or fail to parse are skipped.
func (s *Store) ListFiles(ctx context.Context) ([]*models.FileMeta, error) {
	var metas []*models.FileMeta

	cursor := ""
	for {
		keys, next, err := s.kv.List(ctx, filePrefix, cursor, listPageSize)
		if err != nil {
			return nil, fmt.Errorf("list file metadata: %w", err)
		}

		for _, key := range keys {
			value, ok, err := s.kv.Get(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("get %s: %w", key, err)
			}
			if !ok {
				// Deleted between the scan and the read.
				continue
			}
			var meta models.FileMeta
			if err := json.Unmarshal([]byte(value), &meta); err != nil {
				s.logger.Warn("corrupt file metadata skipped", "key", key, "error", err)
				continue
			}
			metas = append(metas, &meta)
		}

		if next == "" {
			return metas, nil
		}
		cursor = next
	}
}

// History returns the global view-history list; absent or corrupt lists are
// empty.
func (s *Store) History(ctx context.Context) ([]models.HistoryEntry, error) {
	value, ok, err := s.kv.Get(ctx, historyKey)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(value), &entries); err != nil {
		s.logger.Warn("corrupt history treated as empty", "error", err)
		return nil, nil
	}
	return entries, nil
}

// SaveHistory rewrites the global view-history list.
func (s *Store) SaveHistory(ctx context.Context, entries []models.HistoryEntry) error {
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	value, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Put(ctx, historyKey, string(value)); err != nil {
		return fmt.Errorf("put history: %w", err)
	}
	return nil
}

// Folders returns the global folder list; absent or corrupt lists are empty.
func (s *Store) Folders(ctx context.Context) ([]models.Folder, error) {
	value, ok, err := s.kv.Get(ctx, foldersKey)
	if err != nil {
		return nil, fmt.Errorf("get folders: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var folders []models.Folder
	if err := json.Unmarshal([]byte(value), &folders); err != nil {
		s.logger.Warn("corrupt folder list treated as empty", "error", err)
		return nil, nil
	}
	return folders, nil
}

// SaveFolders rewrites the global folder list.
func (s *Store) SaveFolders(ctx context.Context, folders []models.Folder) error {
	if folders == nil {
		folders = []models.Folder{}
	}
	value, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("encode folders: %w", err)
	}
	if err := s.kv.Put(ctx, foldersKey, string(value)); err != nil {
		return fmt.Errorf("put folders: %w", err)
	}
	return nil
}
