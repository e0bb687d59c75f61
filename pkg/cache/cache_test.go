package cache

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func TestTTLFor(t *testing.T) {
	assert.Equal(t, time.Hour, TTLFor(KindCategories))
	assert.Equal(t, 5*time.Minute, TTLFor(KindTrending))
	assert.Equal(t, 10*time.Minute, TTLFor(KindSearch))
	assert.Zero(t, TTLFor("bogus"))
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("v"), data)

	_, hit, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache_SetCopiesInput(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	buf := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'X'

	data, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(data))
}

func TestMemoryCache_FreshUntilTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache(WithClock(clock.Now))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 5*time.Minute))

	clock.Advance(5*time.Minute - time.Nanosecond)
	_, hit, _ := c.Get(ctx, "k")
	assert.True(t, hit, "entry younger than TTL must be fresh")

	clock.Advance(time.Nanosecond)
	_, hit, _ = c.Get(ctx, "k")
	assert.False(t, hit, "entry with age == TTL must be stale")

	// Stale entries linger until displaced.
	assert.Equal(t, 1, c.Stats().Entries)

	require.NoError(t, c.Set(ctx, "k", []byte("v2"), 5*time.Minute))
	data, hit, _ := c.Get(ctx, "k")
	assert.True(t, hit)
	assert.Equal(t, "v2", string(data))
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache(WithClock(clock.Now))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	clock.Advance(1000 * time.Hour)

	_, hit, _ := c.Get(ctx, "k")
	assert.True(t, hit)
}

func TestMemoryCache_ClearAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), time.Hour))
	}
	require.NoError(t, c.Delete(ctx, "a"))
	_, hit, _ := c.Get(ctx, "a")
	assert.False(t, hit)
	assert.Equal(t, 2, c.Stats().Entries)

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Stats().Entries)
	_, hit, _ = c.Get(ctx, "b")
	assert.False(t, hit)
}

func TestMemoryCache_Stats(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_ = c.Set(ctx, "k1", []byte("1"), time.Hour)
	_ = c.Set(ctx, "k2", []byte("2"), time.Hour)
	_, _, _ = c.Get(ctx, "k1")
	_, _, _ = c.Get(ctx, "k1")
	_, _, _ = c.Get(ctx, "nope")

	s := c.Stats()
	assert.Equal(t, int64(2), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.Equal(t, int64(2), s.Sets)
	assert.Equal(t, 2, s.Entries)
}

func TestMemoryCache_ConcurrentDistinctKeys(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			_ = c.Set(ctx, key, []byte{byte(i)}, time.Minute)
			_, _, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Stats().Entries, 26)
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))
	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "key"))
	assert.NoError(t, c.Clear(ctx))
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	c.now = clock.Now

	require.NoError(t, c.Set(ctx, "trending:abc", []byte(`{"x":1}`), TTLTrending))

	data, hit, err := c.Get(ctx, "trending:abc")
	require.NoError(t, err)
	require.True(t, hit)
	assert.JSONEq(t, `{"x":1}`, string(data))

	clock.Advance(TTLTrending)
	_, hit, err = c.Get(ctx, "trending:abc")
	require.NoError(t, err)
	assert.False(t, hit, "entry at TTL must be stale")

	n, err := c.ClearCount()
	require.NoError(t, err)
	assert.Zero(t, n, "stale file should have been removed on read")
}

func TestFileCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, os.WriteFile(c.path("k"), []byte("{not json"), 0o644))

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), time.Hour))
	}

	n, err := c.ClearCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, hit, _ := c.Get(ctx, "a")
	assert.False(t, hit)
	assert.DirExists(t, c.Dir())
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	assert.Equal(t, k.TrendingKey("us", "", 25), k.TrendingKey(" US ", "", 25),
		"region is case- and space-insensitive")
	assert.NotEqual(t, k.TrendingKey("US", "", 25), k.TrendingKey("US", "10", 25))
	assert.NotEqual(t, k.TrendingKey("US", "", 25), k.TrendingKey("US", "", 50))
	assert.NotEqual(t, k.TrendingKey("US", "", 25), k.TrendingKey("GB", "", 25))
	assert.NotEqual(t, k.SearchKey("go", "US", 25), k.SearchKey("rust", "US", 25))
	assert.NotEqual(t, k.CategoriesKey("US"), k.CategoriesKey("DE"))

	assert.Regexp(t, `^trending:[0-9a-f]{64}$`, k.TrendingKey("US", "", 25))
	assert.Regexp(t, `^search:[0-9a-f]{64}$`, k.SearchKey("q", "US", 25))
	assert.Regexp(t, `^categories:[0-9a-f]{64}$`, k.CategoriesKey("US"))
}

func TestHash(t *testing.T) {
	assert.Equal(t, Hash([]byte("hello")), Hash([]byte("hello")))
	assert.NotEqual(t, Hash([]byte("hello")), Hash([]byte("world")))
	assert.Len(t, Hash([]byte("hello")), 64)
}
