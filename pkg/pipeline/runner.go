package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/tubetrend/pkg/cache"
	errs "github.com/matzehuels/tubetrend/pkg/errors"
	"github.com/matzehuels/tubetrend/pkg/integrations"
	"github.com/matzehuels/tubetrend/pkg/integrations/youtube"
	"github.com/matzehuels/tubetrend/pkg/observability"
	"github.com/matzehuels/tubetrend/pkg/videos"
)

// API is the subset of the YouTube client the runner depends on.
type API interface {
	FetchCategories(ctx context.Context, region string) (map[string]string, error)
	FetchTrending(ctx context.Context, region, categoryID string, limit int) ([]youtube.Video, error)
	SearchVideos(ctx context.Context, query, region string, limit int) ([]youtube.Video, error)
}

// ClientFactory builds an API client for one API key.
type ClientFactory func(apiKey string) API

// YouTubeClients returns a ClientFactory producing youtube clients built
// with opts.
func YouTubeClients(opts ...integrations.Option) ClientFactory {
	return func(apiKey string) API {
		return youtube.NewClient(apiKey, opts...)
	}
}

// Runner encapsulates fetch execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results itself. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	NewClient ClientFactory
	Now       func() time.Time

	group singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Clients default to [YouTubeClients] with no options.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		NewClient: YouTubeClients(),
		Now:       time.Now,
	}
}

// Trending fetches the most-popular chart for opts.Region, optionally
// narrowed to opts.Category.
func (r *Runner) Trending(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForTrending(); err != nil {
		return nil, err
	}
	key := r.Keyer.TrendingKey(opts.Region, opts.Category, opts.Limit)

	return r.table(ctx, cache.KindTrending, key, opts, func(ctx context.Context, api API) ([]youtube.Video, error) {
		return api.FetchTrending(ctx, opts.Region, opts.Category, opts.Limit)
	})
}

// Search fetches videos matching opts.Query in opts.Region.
func (r *Runner) Search(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForSearch(); err != nil {
		return nil, err
	}
	key := r.Keyer.SearchKey(opts.Query, opts.Region, opts.Limit)

	return r.table(ctx, cache.KindSearch, key, opts, func(ctx context.Context, api API) ([]youtube.Video, error) {
		return api.SearchVideos(ctx, opts.Query, opts.Region, opts.Limit)
	})
}

// CategoriesWithCacheInfo returns the category map of opts.Region and
// whether it came from the cache. Unlike [Runner.Resolve] it reports
// failures.
func (r *Runner) CategoriesWithCacheInfo(ctx context.Context, opts Options) (map[string]string, bool, error) {
	if err := opts.ValidateForCategories(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.CategoriesKey(opts.Region)

	data, hit, err := r.memo(ctx, cache.KindCategories, key, opts.Refresh, func(ctx context.Context) ([]byte, error) {
		start := time.Now()
		hooks := observability.Pipeline()
		hooks.OnFetchStart(ctx, cache.KindCategories, opts.Region)

		categories, err := r.NewClient(opts.APIKey).FetchCategories(ctx, opts.Region)
		hooks.OnFetchComplete(ctx, cache.KindCategories, opts.Region, len(categories), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		return json.Marshal(categories)
	})
	if err != nil {
		return nil, false, fmt.Errorf("fetch categories: %w", err)
	}

	categories := map[string]string{}
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeDecode, err, "decode cached categories")
	}
	if categories == nil {
		categories = map[string]string{}
	}
	return categories, hit, nil
}

// Categories is a convenience wrapper that calls CategoriesWithCacheInfo and discards the cache hit info.
func (r *Runner) Categories(ctx context.Context, opts Options) (map[string]string, error) {
	categories, _, err := r.CategoriesWithCacheInfo(ctx, opts)
	return categories, err
}

// Resolve returns the category map for region. Any failure is logged and
// yields an empty map, so records fall back to "Unknown" categories.
func (r *Runner) Resolve(ctx context.Context, apiKey, region string) map[string]string {
	categories, err := r.Categories(ctx, Options{APIKey: apiKey, Region: region})
	if err != nil {
		r.Logger.Warn("could not resolve categories", "region", region, "err", errs.UserMessage(err))
		return map[string]string{}
	}
	return categories
}

// ClearCache drops every cached entry.
func (r *Runner) ClearCache(ctx context.Context) error {
	if err := r.Cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	observability.Cache().OnCacheClear(ctx)
	r.Logger.Debug("cleared cache")
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

type fetchFunc func(ctx context.Context, api API) ([]youtube.Video, error)

// table runs one cached table fetch and decodes the stored bytes, so a
// fresh result and a cached one are always byte-identical.
func (r *Runner) table(ctx context.Context, kind, key string, opts Options, fetch fetchFunc) (*Result, error) {
	start := time.Now()

	data, hit, err := r.memo(ctx, kind, key, opts.Refresh, func(ctx context.Context) ([]byte, error) {
		t, err := r.fetchTable(ctx, kind, opts, fetch)
		if err != nil {
			return nil, err
		}
		return json.Marshal(t)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}

	var t videos.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errs.Wrap(errs.ErrCodeDecode, err, "decode cached %s table", kind)
	}
	if t.Records == nil {
		t.Records = []videos.Record{}
	}

	res := &Result{
		Table:     &t,
		Stats:     Stats{Records: len(t.Records), Duration: time.Since(start)},
		CacheInfo: CacheInfo{Hit: hit, Key: key},
	}
	r.Logger.Info("fetched "+kind,
		"region", opts.Region,
		"records", res.Stats.Records,
		"cached", hit,
		"duration", res.Stats.Duration)
	return res, nil
}

func (r *Runner) fetchTable(ctx context.Context, kind string, opts Options, fetch fetchFunc) (*videos.Table, error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, kind, opts.Region)

	items, err := fetch(ctx, r.NewClient(opts.APIKey))
	if err != nil {
		hooks.OnFetchComplete(ctx, kind, opts.Region, 0, time.Since(start), err)
		return nil, err
	}

	// Category names are only worth a lookup when there is something to label.
	var categories map[string]string
	if len(items) > 0 {
		categories = r.Resolve(ctx, opts.APIKey, opts.Region)
	}

	now := r.Now().UTC()
	t := videos.NewTable(videos.Kind(kind), opts.Region, now)
	t.Category = opts.Category
	t.Query = opts.Query
	t.Limit = opts.Limit
	t.Records = videos.NormalizeAll(items, categories, videos.NormalizeContext{
		Region:    opts.Region,
		FetchTime: now,
	})

	hooks.OnFetchComplete(ctx, kind, opts.Region, len(t.Records), time.Since(start), nil)
	return t, nil
}

// memo returns the cached bytes for key, or runs fetch and stores its
// result with the kind's TTL. Concurrent misses for one key share a fetch.
func (r *Runner) memo(ctx context.Context, kind, key string, refresh bool, fetch func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()

	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "kind", kind, "err", err)
		}
		if err == nil && hit {
			hooks.OnCacheHit(ctx, kind)
			r.Logger.Debug("cache hit", "kind", kind, "key", key)
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, kind)
		r.Logger.Debug("cache miss", "kind", kind, "key", key)
	}

	// The fetch is shared by every caller waiting on key, so it runs
	// detached from any one caller's cancellation; the client timeouts
	// bound it. Each caller still stops waiting when its own ctx is done.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		data, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		if err := r.Cache.Set(shared, key, data, cache.TTLFor(kind)); err != nil {
			r.Logger.Warn("cache write failed", "kind", kind, "err", err)
		} else {
			hooks.OnCacheSet(shared, kind, len(data))
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.([]byte), false, nil
	}
}
