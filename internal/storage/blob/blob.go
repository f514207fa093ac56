// Package blob provides the object store for raw markdown content, keyed by
// the file id. Overwrite-or-create semantics only; no versioning.
package blob

import "context"

// Store is the object store contract.
type Store interface {
	// Get returns the content stored under key. ok is false when absent.
	Get(ctx context.Context, key string) (content []byte, ok bool, err error)

	// Put writes content under key, replacing any existing content.
	Put(ctx context.Context, key string, content []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
