// Package pkg provides the core libraries for tubetrend.
//
// # Overview
//
// tubetrend fetches trending charts and keyword search results from the
// YouTube Data API v3, flattens each video into a record, derives engagement
// metrics, and caches responses so repeated calls stay within API quota. The
// pkg directory is organized into these areas:
//
//  1. [integrations] - HTTP plumbing and the YouTube client
//  2. [videos] - Records, normalization, metrics, regions
//  3. [cache] - TTL response cache (memory, file, Redis)
//  4. [pipeline] - Orchestration (cache → fetch → normalize → annotate)
//  5. [stats], [io] - Aggregates and export formats
//
// # Architecture
//
// The data flow of one fetch:
//
//	YouTube Data API
//	       ↓
//	[integrations/youtube] (videos, search, videoCategories)
//	       ↓
//	[videos] (normalize + annotate)
//	       ↓
//	[pipeline] (cache by call parameters, collapse concurrent misses)
//	       ↓
//	[stats] / [io] (summaries, CSV, JSON)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	res, err := runner.Trending(ctx, pipeline.Options{APIKey: key, Region: "GB"})
//	if err != nil {
//	    return err
//	}
//	summary := stats.Summarize(res.Table)
//	fmt.Println(summary.TopCategory, summary.AvgEngagement)
//
// # Cross-cutting Packages
//
// [errors] - Error codes, classification of upstream failures, validation.
//
// [observability] - Hook interfaces for fetch, cache, and HTTP events with a
// Prometheus implementation.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/videos/...     # Specific package
//	go test -run Example ./...   # Examples only
//
// [integrations]: https://pkg.go.dev/github.com/matzehuels/tubetrend/pkg/integrations
// [integrations/youtube]: https://pkg.go.dev/github.com/matzehuels/tubetrend/pkg/integrations/youtube
// [videos]: https://pkg.go.dev/github.com/matzehuels/tubetrend/pkg/videos
// [cache]: https://pkg.go.dev/github.com/matzehuels/tubetrend/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tubetrend/pkg/pipeline
// [stats]: https://pkg.go.dev/github.com/matzehuels/tubetrend/pkg/stats
// [io]: https://pkg.go.dev/github.com/matzehuels/tubetrend/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/tubetrend/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tubetrend/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/tubetrend/pkg/buildinfo
package pkg
