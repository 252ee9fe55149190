package embedding

import (
	"container/list"
	"sync"
	"time"
)

// EmbeddingCache is an LRU cache for embeddings keyed by text. Entries also
// carry a TTL; an expired entry counts as a miss and is removed on access.
type EmbeddingCache struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key       string
	value     []float64
	expiresAt time.Time
}

// CacheOption configures an EmbeddingCache.
type CacheOption func(*EmbeddingCache)

// WithClock overrides the cache's time source. Used by tests to control TTL
// expiry without sleeping.
func WithClock(now func() time.Time) CacheOption {
	return func(c *EmbeddingCache) {
		c.now = now
	}
}

// NewEmbeddingCache creates a cache holding up to capacity entries, each valid
// for ttl after insertion. A non-positive ttl disables expiry.
func NewEmbeddingCache(capacity int, ttl time.Duration, opts ...CacheOption) *EmbeddingCache {
	c := &EmbeddingCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached embedding for key if present and not expired.
func (c *EmbeddingCache) Get(key string) ([]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.lru.Remove(elem)
		delete(c.cache, key)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return entry.value, true
}

// Set stores the embedding for key, evicting the oldest entry if at capacity.
func (c *EmbeddingCache) Set(key string, value []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		return
	}

	entry := &cacheEntry{key: key, value: value, expiresAt: expiresAt}
	elem := c.lru.PushFront(entry)
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of entries currently cached, including any that have
// expired but not yet been evicted.
func (c *EmbeddingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
