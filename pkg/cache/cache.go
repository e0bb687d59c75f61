// Package cache provides the response cache backends used by the fetch
// pipeline.
//
// A [Cache] stores opaque byte slices under string keys with a per-entry
// time-to-live. The pipeline decides what goes in (encoded tables and
// category maps) and which TTL applies; backends only decide where the
// bytes live:
//
//   - [MemoryCache]: process lifetime, the default for library and server use
//   - [FileCache]: one JSON file per entry, survives between CLI invocations
//   - [RedisCache]: shared between processes
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer], which derives them from call parameters only.
package cache

import (
	"context"
	"time"
)

// Call kinds. Each kind has its own fixed TTL.
const (
	KindCategories = "categories"
	KindTrending   = "trending"
	KindSearch     = "search"
)

// Fixed TTLs per call kind.
const (
	TTLCategories = time.Hour
	TTLTrending   = 5 * time.Minute
	TTLSearch     = 10 * time.Minute
)

// TTLFor returns the TTL for a call kind, or 0 for an unknown kind.
func TTLFor(kind string) time.Duration {
	switch kind {
	case KindCategories:
		return TTLCategories
	case KindTrending:
		return TTLTrending
	case KindSearch:
		return TTLSearch
	}
	return 0
}

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get reports a hit only for entries whose age is below their TTL; a stale
// entry reads as a miss and is displaced by the next Set for the same key.
// A TTL of 0 means the entry never goes stale.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear drops every entry unconditionally.
	Clear(ctx context.Context) error
	Close() error
}

// fresh reports whether an entry stored at storedAt with ttl is still
// fresh at now.
func fresh(storedAt time.Time, ttl time.Duration, now time.Time) bool {
	return ttl <= 0 || now.Sub(storedAt) < ttl
}
