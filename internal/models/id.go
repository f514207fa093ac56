package models

import "github.com/google/uuid"

// Folder ids carry a prefix so the two id namespaces can never collide.
const folderIDPrefix = "folder-"

// NewFileID returns a fresh opaque file identifier.
func NewFileID() string {
	return uuid.NewString()
}

// NewFolderID returns a fresh folder identifier, prefixed to stay disjoint
// from the file id namespace.
func NewFolderID() string {
	return folderIDPrefix + uuid.NewString()
}

// BlobKey returns the object-store key for a file's markdown content.
func BlobKey(fileID string) string {
	return fileID + ".md"
}
