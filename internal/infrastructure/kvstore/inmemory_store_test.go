package kvstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_GetSetDelete(t *testing.T) {
	store := NewInMemoryStore()
	defer store.Close()
	ctx := context.Background()

	t.Run("missing key returns ErrKeyNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "cart", `[{"productId":"p1","quantity":2}]`))
		val, err := store.Get(ctx, "cart")
		require.NoError(t, err)
		assert.Equal(t, `[{"productId":"p1","quantity":2}]`, val)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "cart", "v2"))
		val, err := store.Get(ctx, "cart")
		require.NoError(t, err)
		assert.Equal(t, "v2", val)
	})

	t.Run("delete removes key", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "cart"))
		_, err := store.Get(ctx, "cart")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("deleting absent key is not an error", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-existed"))
	})
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryStore()
	defer store.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%10)
			_ = store.Set(ctx, key, "value")
			_, _ = store.Get(ctx, key)
			if n%3 == 0 {
				_ = store.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, store.Len(), 10)
}
