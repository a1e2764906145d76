package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounterStoreIncrement(t *testing.T) {
	store := NewMemoryCounterStore()
	ctx := context.Background()

	count, start, err := store.ReadAndIncrement(ctx, "org-1:read", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, start2, err := store.ReadAndIncrement(ctx, "org-1:read", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, start, start2, "window start is stable within a window")
}

func TestMemoryCounterStoreWindowRollover(t *testing.T) {
	store := NewMemoryCounterStore()
	current := time.Now()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := store.ReadAndIncrement(ctx, "k", time.Minute)
		require.NoError(t, err)
	}

	current = current.Add(time.Minute)

	count, start, err := store.ReadAndIncrement(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, current, start)
}

func TestMemoryCounterStoreKeysIndependent(t *testing.T) {
	store := NewMemoryCounterStore()
	ctx := context.Background()

	_, _, err := store.ReadAndIncrement(ctx, "a", time.Minute)
	require.NoError(t, err)

	count, _, err := store.ReadAndIncrement(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryCounterStoreConcurrent(t *testing.T) {
	store := NewMemoryCounterStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = store.ReadAndIncrement(ctx, "shared", time.Minute)
		}()
	}
	wg.Wait()

	count, _, err := store.ReadAndIncrement(ctx, "shared", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(51), count)
}

func TestMemoryCounterStoreCleanup(t *testing.T) {
	store := NewMemoryCounterStore()
	current := time.Now()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	_, _, err := store.ReadAndIncrement(ctx, "stale", time.Minute)
	require.NoError(t, err)

	current = current.Add(3 * time.Minute)
	store.Cleanup(time.Minute)

	store.mu.Lock()
	_, ok := store.windows["stale"]
	store.mu.Unlock()
	assert.False(t, ok, "elapsed window should have been dropped")
}
