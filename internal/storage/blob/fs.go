package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS stores blobs as plain files under a data directory.
type FS struct {
	dataDir string
}

// NewFS creates the data directory if needed and returns a filesystem store.
func NewFS(dataDir string) (*FS, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FS{dataDir: dataDir}, nil
}

// path maps a key to a file path, rejecting anything that would escape the
// data directory.
func (f *FS) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || key == "." || key == ".." {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(f.dataDir, key), nil
}

func (f *FS) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, false, err
	}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read blob %s: %w", key, err)
	}
	return content, true, nil
}

func (f *FS) Put(_ context.Context, key string, content []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	return nil
}

func (f *FS) Delete(_ context.Context, key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
