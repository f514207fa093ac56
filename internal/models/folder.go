package models

import "time"

// Folder is a named group of file ids, stored inside the global folders list.
// Names are not required to be unique; identity is by id.
type Folder struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	FileIDs []string  `json:"fileIds"`
	Created time.Time `json:"created"`
}

// Contains reports whether the folder's membership list includes id.
func (f *Folder) Contains(id string) bool {
	for _, fid := range f.FileIDs {
		if fid == id {
			return true
		}
	}
	return false
}

// FolderView is a folder decorated with the resolved metadata of its member
// files. Member ids whose metadata record no longer exists are dropped from
// Files but left in the underlying FileIDs.
type FolderView struct {
	Folder
	Files []*FileMeta `json:"files"`
}
