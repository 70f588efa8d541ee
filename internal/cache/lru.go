package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/sframe/resource"
)

// LRUBlockCache is a BlockCache bounded by total block bytes.
type LRUBlockCache struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	blocks   map[Key]*list.Element
	recency  *list.List // front is most recently used
	rc       *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type block struct {
	key  Key
	data []byte
}

// NewLRUBlockCache creates a cache holding at most capacity bytes. A non-nil
// rc is charged for every cached byte and may refuse new blocks.
func NewLRUBlockCache(capacity int64, rc *resource.Controller) *LRUBlockCache {
	return &LRUBlockCache{
		capacity: capacity,
		blocks:   make(map[Key]*list.Element),
		recency:  list.New(),
		rc:       rc,
	}
}

// Get returns a cached block.
func (c *LRUBlockCache) Get(_ context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.blocks[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.recency.MoveToFront(e)
	return e.Value.(*block).data, true
}

// Set caches a block, replacing an existing one under the same key. Blocks
// larger than the capacity are not cached.
func (c *LRUBlockCache) Set(_ context.Context, key Key, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.blocks[key]; ok {
		c.remove(e)
	}
	n := int64(len(data))
	if n > c.capacity {
		return
	}
	for c.size+n > c.capacity {
		c.remove(c.recency.Back())
	}
	if !c.rc.TryAcquireMemory(n) {
		return
	}
	c.blocks[key] = c.recency.PushFront(&block{key: key, data: data})
	c.size += n
}

// Invalidate removes the blocks whose key matches.
func (c *LRUBlockCache) Invalidate(match func(key Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.blocks {
		if match(key) {
			c.remove(e)
		}
	}
}

// Stats returns the number of hits and misses.
func (c *LRUBlockCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the cached bytes.
func (c *LRUBlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *LRUBlockCache) remove(e *list.Element) {
	b := c.recency.Remove(e).(*block)
	delete(c.blocks, b.key)
	n := int64(len(b.data))
	c.size -= n
	c.rc.ReleaseMemory(n)
}
