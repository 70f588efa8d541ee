package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/sframe/resource"
)

func TestLRU_Eviction(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlockCache(30, nil)

	c.Set(ctx, Key{Path: "a", Block: 0}, make([]byte, 10))
	c.Set(ctx, Key{Path: "a", Block: 1}, make([]byte, 10))
	c.Set(ctx, Key{Path: "b", Block: 0}, make([]byte, 10))

	_, ok := c.Get(ctx, Key{Path: "a", Block: 0})
	assert.True(t, ok)

	c.Set(ctx, Key{Path: "b", Block: 1}, make([]byte, 10))
	_, ok = c.Get(ctx, Key{Path: "a", Block: 1})
	assert.False(t, ok, "least recently used block is evicted")
	_, ok = c.Get(ctx, Key{Path: "a", Block: 0})
	assert.True(t, ok)
	assert.Equal(t, int64(30), c.Size())

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_ResourceAccounting(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 25})
	c := NewLRUBlockCache(100, rc)
	k := Key{Path: "blob"}

	c.Set(ctx, k, make([]byte, 60))
	_, ok := c.Get(ctx, k)
	assert.False(t, ok, "controller denies blocks above its limit")

	c.Set(ctx, k, make([]byte, 10))
	assert.Equal(t, int64(10), rc.MemoryUsage())

	c.Set(ctx, k, make([]byte, 20))
	assert.Equal(t, int64(20), rc.MemoryUsage())

	c.Set(ctx, k, make([]byte, 40))
	_, ok = c.Get(ctx, k)
	assert.False(t, ok, "a refused replacement drops the old block")
	assert.Equal(t, int64(0), rc.MemoryUsage())

	c.Set(ctx, k, make([]byte, 5))
	assert.Equal(t, int64(5), rc.MemoryUsage())

	c.Invalidate(func(key Key) bool { return key.Path == "blob" })
	assert.Equal(t, int64(0), c.Size())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}
