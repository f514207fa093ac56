package models

import "time"

// HistoryEntry is one element of the global view-history list. Filename is a
// denormalized snapshot taken at the last view and refreshed on rename.
type HistoryEntry struct {
	ID       string    `json:"id"`
	Filename string    `json:"filename"`
	Source   Source    `json:"source"`
	ViewedAt time.Time `json:"viewedAt"`
}
