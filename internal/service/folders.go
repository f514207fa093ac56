package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"mdstash/internal/domain"
	"mdstash/internal/metadata"
	"mdstash/internal/models"
	"mdstash/internal/storage/blob"
)

// FolderService maintains named groups of file ids. The folder list is the
// authoritative membership index; the folderId field on file metadata is a
// denormalized cache kept in sync best-effort and reconciled on read.
type FolderService struct {
	meta   *metadata.Store
	blobs  blob.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewFolderService creates a folder service.
func NewFolderService(meta *metadata.Store, blobs blob.Store, logger *slog.Logger) *FolderService {
	return &FolderService{
		meta:   meta,
		blobs:  blobs,
		logger: logger,
		now:    time.Now,
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required); err != nil {
		return "", fmt.Errorf("folder name: %w", domain.ErrValidation)
	}
	return name, nil
}

// Create adds a new empty folder. Names need not be unique; identity is by id.
func (s *FolderService) Create(ctx context.Context, name string) (*models.Folder, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	folders, err := s.meta.Folders(ctx)
	if err != nil {
		return nil, err
	}

	folder := models.Folder{
		ID:      models.NewFolderID(),
		Name:    name,
		FileIDs: []string{},
		Created: s.now(),
	}
	folders = append(folders, folder)

	if err := s.meta.SaveFolders(ctx, folders); err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "id", folder.ID, "name", folder.Name)
	return &folder, nil
}

// Rename changes a folder's display name.
func (s *FolderService) Rename(ctx context.Context, id, name string) (*models.Folder, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	folders, err := s.meta.Folders(ctx)
	if err != nil {
		return nil, err
	}

	idx := folderIndex(folders, id)
	if idx < 0 {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	folders[idx].Name = name

	if err := s.meta.SaveFolders(ctx, folders); err != nil {
		return nil, err
	}
	return &folders[idx], nil
}

// AddFile files a file into a folder. The file is first removed from every
// other folder, keeping the at-most-one-folder invariant, then the folder
// list and the file's denormalized folderId are written in that order. The
// two writes are not atomic; readers tolerate the window.
func (s *FolderService) AddFile(ctx context.Context, folderID, fileID string) error {
	folders, err := s.meta.Folders(ctx)
	if err != nil {
		return err
	}

	idx := folderIndex(folders, folderID)
	if idx < 0 {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}

	meta, err := s.meta.GetFile(ctx, fileID)
	if err != nil {
		return err
	}

	for i := range folders {
		folders[i].FileIDs = removeID(folders[i].FileIDs, fileID)
	}
	folders[idx].FileIDs = append(folders[idx].FileIDs, fileID)

	if err := s.meta.SaveFolders(ctx, folders); err != nil {
		return err
	}

	meta.FolderID = folderID
	if err := s.meta.PutFile(ctx, meta); err != nil {
		return fmt.Errorf("update file folder reference: %w", err)
	}

	s.logger.Info("file filed", "file_id", fileID, "folder_id", folderID)
	return nil
}

// RemoveFile unfiles a file from a folder. Clearing the denormalized
// folderId is best-effort; a missing metadata record is not an error.
func (s *FolderService) RemoveFile(ctx context.Context, folderID, fileID string) error {
	folders, err := s.meta.Folders(ctx)
	if err != nil {
		return err
	}

	idx := folderIndex(folders, folderID)
	if idx < 0 {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}
	folders[idx].FileIDs = removeID(folders[idx].FileIDs, fileID)

	if err := s.meta.SaveFolders(ctx, folders); err != nil {
		return err
	}

	meta, err := s.meta.GetFile(ctx, fileID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("read file metadata failed", "id", fileID, "error", err)
		}
		return nil
	}
	if meta.FolderID != "" {
		meta.FolderID = ""
		if err := s.meta.PutFile(ctx, meta); err != nil {
			s.logger.Warn("clear file folder reference failed", "id", fileID, "error", err)
		}
	}
	return nil
}

// Move transfers a file between two folders. Appending to the target is
// skipped when the id is already present, so a double-submitted move is
// harmless.
func (s *FolderService) Move(ctx context.Context, sourceFolderID, fileID, targetFolderID string) error {
	folders, err := s.meta.Folders(ctx)
	if err != nil {
		return err
	}

	src := folderIndex(folders, sourceFolderID)
	if src < 0 {
		return fmt.Errorf("folder %s: %w", sourceFolderID, domain.ErrNotFound)
	}
	dst := folderIndex(folders, targetFolderID)
	if dst < 0 {
		return fmt.Errorf("folder %s: %w", targetFolderID, domain.ErrNotFound)
	}

	folders[src].FileIDs = removeID(folders[src].FileIDs, fileID)
	if !folders[dst].Contains(fileID) {
		folders[dst].FileIDs = append(folders[dst].FileIDs, fileID)
	}

	if err := s.meta.SaveFolders(ctx, folders); err != nil {
		return err
	}

	meta, err := s.meta.GetFile(ctx, fileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	meta.FolderID = targetFolderID
	if err := s.meta.PutFile(ctx, meta); err != nil {
		return fmt.Errorf("update file folder reference: %w", err)
	}
	return nil
}

// Delete removes a folder and cascades to its member files: blob, metadata
// record, and history entry all go. History entries are removed in one
// batched rewrite at the end. There is no rollback on partial failure.
func (s *FolderService) Delete(ctx context.Context, folderID string) error {
	folders, err := s.meta.Folders(ctx)
	if err != nil {
		return err
	}

	idx := folderIndex(folders, folderID)
	if idx < 0 {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}
	folder := folders[idx]

	deleted := make(map[string]bool, len(folder.FileIDs))
	for _, fileID := range folder.FileIDs {
		if err := s.blobs.Delete(ctx, models.BlobKey(fileID)); err != nil {
			s.logger.Warn("delete blob failed", "id", fileID, "error", err)
		}
		if err := s.meta.DeleteFile(ctx, fileID); err != nil {
			s.logger.Warn("delete file metadata failed", "id", fileID, "error", err)
		}
		deleted[fileID] = true
	}

	folders = append(folders[:idx], folders[idx+1:]...)
	if err := s.meta.SaveFolders(ctx, folders); err != nil {
		return err
	}

	if len(deleted) > 0 {
		entries, err := s.meta.History(ctx)
		if err != nil {
			return err
		}
		kept := entries[:0]
		for _, entry := range entries {
			if !deleted[entry.ID] {
				kept = append(kept, entry)
			}
		}
		if err := s.meta.SaveHistory(ctx, kept); err != nil {
			return err
		}
	}

	s.logger.Info("folder deleted", "id", folderID, "files_deleted", len(deleted))
	return nil
}

// List returns every folder decorated with resolved member metadata. Member
// ids without a backing record are dropped from the view but deliberately
// left in the stored list; the next folder deletion or sweep reconciles them.
func (s *FolderService) List(ctx context.Context) ([]models.FolderView, error) {
	folders, err := s.meta.Folders(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.FolderView, 0, len(folders))
	for _, folder := range folders {
		view := models.FolderView{Folder: folder, Files: []*models.FileMeta{}}
		for _, fileID := range folder.FileIDs {
			meta, err := s.meta.GetFile(ctx, fileID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, err
			}
			view.Files = append(view.Files, meta)
		}
		views = append(views, view)
	}
	return views, nil
}

func folderIndex(folders []models.Folder, id string) int {
	for i := range folders {
		if folders[i].ID == id {
			return i
		}
	}
	return -1
}

func removeID(ids []string, id string) []string {
	kept := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	return kept
}
