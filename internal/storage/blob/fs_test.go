package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFS(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, "missing.md")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "a.md", []byte("# hello")))

	content, ok, err := store.Get(ctx, "a.md")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "# hello", string(content))

	// Overwrite.
	require.NoError(t, store.Put(ctx, "a.md", []byte("# updated")))
	content, _, err = store.Get(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, "# updated", string(content))

	require.NoError(t, store.Delete(ctx, "a.md"))
	_, ok, err = store.Get(ctx, "a.md")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	require.NoError(t, store.Delete(ctx, "a.md"))
}

func TestFSRejectsPathEscapes(t *testing.T) {
	ctx := context.Background()
	store, err := NewFS(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b.md", `a\b.md`} {
		assert.Error(t, store.Put(ctx, key, []byte("x")), "key %q", key)
	}
}
