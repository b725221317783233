package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.SetIfAbsent(ctx, "sid-1", "marker", "1")
	require.NoError(t, err)
	assert.True(t, first)

	// Second write loses and the original value survives
	second, err := store.SetIfAbsent(ctx, "sid-1", "marker", "2")
	require.NoError(t, err)
	assert.False(t, second)

	value, err := store.Get(ctx, "sid-1", "marker")
	require.NoError(t, err)
	assert.Equal(t, "1", value)

	// Same key in another session is independent
	other, err := store.SetIfAbsent(ctx, "sid-2", "marker", "1")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestMemoryStoreGetUnset(t *testing.T) {
	store := NewMemoryStore()

	value, err := store.Get(context.Background(), "missing", "key")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestMemoryStoreDestroy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "sid-1", "marker", "1"))
	require.NoError(t, store.Destroy(ctx, "sid-1"))

	value, err := store.Get(ctx, "sid-1", "marker")
	require.NoError(t, err)
	assert.Empty(t, value)

	// A destroyed session accepts fresh markers again
	first, err := store.SetIfAbsent(ctx, "sid-1", "marker", "1")
	require.NoError(t, err)
	assert.True(t, first)
}
