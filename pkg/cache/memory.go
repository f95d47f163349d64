package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tenonkit/tenon/core"
)

// InMemoryCache is a TTL-bound session cache for single-process
// deployments. Multi-instance deployments should use the redis adapter
// instead so invalidation reaches every instance.
type InMemoryCache struct {
	cache   map[string]*cachedRecord
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int

	// counters
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
}

type cachedRecord struct {
	data     *core.SessionData
	cachedAt time.Time
}

var _ core.CacheWithStats = (*InMemoryCache)(nil)

func NewInMemoryCache(c core.CacheConfig) *InMemoryCache {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &InMemoryCache{
		cache:   make(map[string]*cachedRecord),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
	}
}

func (c *InMemoryCache) Get(_ context.Context, tokenHash string) (*core.SessionData, error) {
	c.mu.RLock()
	record, exists := c.cache[tokenHash]
	c.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, core.ErrCacheNotFound
	}

	if time.Since(record.cachedAt) > c.ttl {
		atomic.AddInt64(&c.misses, 1)
		c.mu.Lock()
		delete(c.cache, tokenHash)
		c.mu.Unlock()
		return nil, core.ErrCacheNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	return record.data, nil
}

func (c *InMemoryCache) Set(_ context.Context, tokenHash string, data *core.SessionData) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cache) >= c.maxSize {
		c.evictOldestLocked()
	}

	c.cache[tokenHash] = &cachedRecord{data: data, cachedAt: time.Now()}
	atomic.AddInt64(&c.sets, 1)
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, tokenHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[tokenHash]; exists {
		delete(c.cache, tokenHash)
		atomic.AddInt64(&c.deletes, 1)
	}
	return nil
}

func (c *InMemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string]*cachedRecord)
	return nil
}

func (c *InMemoryCache) Stats() core.CacheStats {
	c.mu.RLock()
	size := len(c.cache)
	c.mu.RUnlock()

	return core.CacheStats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Deletes:   atomic.LoadInt64(&c.deletes),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      size,
		TTL:       c.ttl,
	}
}

// evictOldestLocked removes the stalest record. Caller holds the write
// lock.
func (c *InMemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time

	for key, record := range c.cache {
		if oldestKey == "" || record.cachedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = record.cachedAt
		}
	}

	if oldestKey != "" {
		delete(c.cache, oldestKey)
		atomic.AddInt64(&c.evictions, 1)
	}
}
