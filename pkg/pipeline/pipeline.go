// Package pipeline provides the cached fetch pipeline for tubetrend.
//
// This package ties the YouTube client, the response cache, and the videos
// normalizer together so that the CLI and the HTTP facade share one
// implementation of "fetch, normalize, annotate, cache".
//
// # Architecture
//
// Each call to [Runner.Trending] or [Runner.Search] goes through:
//
//  1. Cache lookup, keyed only on call parameters (region, category or
//     query, limit). The API key never participates in the key.
//  2. On a miss, one upstream fetch. Concurrent misses for the same key
//     are collapsed into one fetch.
//  3. Category resolution through [Runner.Resolve], itself cached for an
//     hour. A failed lookup degrades to "Unknown" names, never to an error.
//  4. Normalization and metric annotation of every item.
//  5. The JSON-encoded table is stored with the call kind's TTL. Failed
//     fetches are not stored; empty successful results are.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	res, err := runner.Trending(ctx, pipeline.Options{
//	    APIKey: key,
//	    Region: "US",
//	    Limit:  25,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range res.Table.Records {
//	    fmt.Println(r.Title, r.EngagementRate)
//	}
package pipeline

import (
	"strings"
	"time"

	errs "github.com/matzehuels/tubetrend/pkg/errors"
	"github.com/matzehuels/tubetrend/pkg/videos"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultRegion is used when no region is given.
	DefaultRegion = "US"

	// DefaultTrendingLimit is the trending page size when none is given.
	DefaultTrendingLimit = 50

	// DefaultSearchLimit is the search page size when none is given.
	DefaultSearchLimit = 25
)

// =============================================================================
// Options - Fetch Configuration
// =============================================================================

// Options configures one fetch. It supports JSON serialization so the HTTP
// facade can echo back what it ran; the API key is never serialized.
type Options struct {
	Region   string `json:"region"`
	Category string `json:"category,omitempty"` // numeric category id, trending only
	Query    string `json:"query,omitempty"`    // search only
	Limit    int    `json:"limit"`
	Refresh  bool   `json:"refresh,omitempty"` // bypass cached entries

	APIKey string `json:"-"`
}

// Result contains the outputs of one fetch.
type Result struct {
	// Table holds the normalized, annotated records.
	Table *videos.Table

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the table came from the cache.
	CacheInfo CacheInfo
}

// Stats contains fetch statistics.
type Stats struct {
	Records  int
	Duration time.Duration
}

// CacheInfo tracks cache usage for one fetch.
type CacheInfo struct {
	Hit bool   // Whether the table came from cache
	Key string // Cache key used
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForTrending checks the fields a trending fetch needs and applies
// defaults. It is idempotent.
func (o *Options) ValidateForTrending() error {
	if err := o.validateCommon(DefaultTrendingLimit); err != nil {
		return err
	}
	o.Category = strings.TrimSpace(o.Category)
	return errs.ValidateCategoryID(o.Category)
}

// ValidateForSearch checks the fields a search needs and applies defaults.
// It is idempotent.
func (o *Options) ValidateForSearch() error {
	if err := o.validateCommon(DefaultSearchLimit); err != nil {
		return err
	}
	o.Query = strings.TrimSpace(o.Query)
	return errs.ValidateQuery(o.Query)
}

// ValidateForCategories checks the fields a category lookup needs.
func (o *Options) ValidateForCategories() error {
	return o.validateCommon(DefaultTrendingLimit)
}

func (o *Options) validateCommon(defaultLimit int) error {
	if err := errs.ValidateAPIKey(o.APIKey); err != nil {
		return err
	}
	o.Region = strings.ToUpper(strings.TrimSpace(o.Region))
	if o.Region == "" {
		o.Region = DefaultRegion
	}
	if err := errs.ValidateRegion(o.Region); err != nil {
		return err
	}
	if o.Limit == 0 {
		o.Limit = defaultLimit
	}
	o.Limit = errs.ClampLimit(o.Limit)
	return nil
}
