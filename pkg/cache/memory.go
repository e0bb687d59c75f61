package cache

import (
	"context"
	"sync"
	"time"
)

// Stats holds cache counters.
type Stats struct {
	Hits    int64 // Get calls that returned a fresh entry
	Misses  int64 // Get calls on absent or stale entries
	Sets    int64
	Entries int // entries currently held, fresh or stale
}

type memEntry struct {
	data     []byte
	storedAt time.Time
	ttl      time.Duration
}

// MemoryCache keeps entries in a map for the life of the process.
//
// Stale entries are not swept; they stay until displaced by a Set for the
// same key or dropped by Clear. The key space (region × category × limit)
// is small enough that no size bound is needed.
//
// MemoryCache is safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	stats   Stats
	now     func() time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now, letting tests move time forward.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for key if it is still fresh.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !fresh(e.storedAt, e.ttl, c.now()) {
		c.stats.Misses++
		return nil, false, nil
	}
	c.stats.Hits++
	return e.data, true, nil
}

// Set stores data under key, displacing any previous entry.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{data: buf, storedAt: c.now(), ttl: ttl}
	c.stats.Sets++
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memEntry)
	return nil
}

// Stats returns a snapshot of the cache counters.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// Close does nothing.
func (c *MemoryCache) Close() error {
	return nil
}

var _ Cache = (*MemoryCache)(nil)
