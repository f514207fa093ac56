package models

import "time"

// Source records how a file entered the store.
type Source string

const (
	SourceUpload Source = "upload"
	SourcePaste  Source = "paste"
)

// FileMeta is the per-file metadata record, stored under the meta:{id} key.
// The content itself lives in the object store under {id}.md.
type FileMeta struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Source   Source `json:"source"`
	Size     int64  `json:"size"`

	Created time.Time `json:"created"`

	// LastAccessedAt is refreshed on every view (and set at creation).
	// It is the reference time for retention aging.
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty"`

	// ArchivedAt is present only while the file is archived. Viewing the
	// file clears it.
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`

	// FolderID is a denormalized copy of folder membership. The folder's
	// FileIDs list is authoritative; this field is a cache for lookup and
	// for the retention exemption check, and may briefly disagree.
	FolderID string `json:"folderId,omitempty"`
}

// Archived reports whether the file is currently in the archived state.
func (m *FileMeta) Archived() bool {
	return m.ArchivedAt != nil
}

// ReferenceTime returns the timestamp retention aging is measured from:
// LastAccessedAt when present, otherwise Created. ok is false when the
// record carries neither.
func (m *FileMeta) ReferenceTime() (time.Time, bool) {
	if m.LastAccessedAt != nil && !m.LastAccessedAt.IsZero() {
		return *m.LastAccessedAt, true
	}
	if !m.Created.IsZero() {
		return m.Created, true
	}
	return time.Time{}, false
}
