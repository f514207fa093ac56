// Package kv provides the metadata store: a string key/value store with
// per-key read/write consistency and cursor-paginated prefix listing.
// No multi-key transactions are offered; callers layer their own
// reconciliation on top.
package kv

import "context"

// Store is the metadata store contract.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put writes value under key, overwriting any existing value.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns up to limit keys beginning with prefix, in ascending
	// key order, starting strictly after cursor (pass "" for the first
	// page). next is "" once the enumeration is exhausted.
	List(ctx context.Context, prefix, cursor string, limit int) (keys []string, next string, err error)
}

// prefixUpperBound returns the smallest string greater than every string
// with the given prefix, or "" when no upper bound exists.
func prefixUpperBound(prefix string) string {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	return ""
}
