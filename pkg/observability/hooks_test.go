package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recorder counts the events it receives.
type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks

	mu      sync.Mutex
	fetches []string
	hits    int
}

func (r *recorder) OnFetchComplete(_ context.Context, kind, region string, _ int, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches = append(r.fetches, kind+"/"+region)
}

func (r *recorder) OnCacheHit(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits++
}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnFetchStart(ctx, "trending", "US")
	p.OnFetchComplete(ctx, "search", "GB", 25, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "trending")
	c.OnCacheMiss(ctx, "search")
	c.OnCacheSet(ctx, "categories", 1024)
	c.OnCacheClear(ctx)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "www.googleapis.com", "/youtube/v3/videos")
	h.OnResponse(ctx, "GET", "www.googleapis.com", "/youtube/v3/videos", 200, time.Second)
	h.OnError(ctx, "GET", "www.googleapis.com", "/youtube/v3/search", nil)
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}
}

func TestInstalledHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)
	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetHTTPHooks(rec)

	ctx := context.Background()
	Pipeline().OnFetchComplete(ctx, "trending", "JP", 3, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "trending")
	Cache().OnCacheHit(ctx, "categories")

	if len(rec.fetches) != 1 || rec.fetches[0] != "trending/JP" {
		t.Errorf("fetches = %v, want [trending/JP]", rec.fetches)
	}
	if rec.hits != 2 {
		t.Errorf("hits = %d, want 2", rec.hits)
	}

	Reset()
	Cache().OnCacheHit(ctx, "trending")
	if rec.hits != 2 {
		t.Error("hooks still receive events after Reset")
	}
}

func TestSetNilKeepsCurrentHooks(t *testing.T) {
	t.Cleanup(Reset)
	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != PipelineHooks(rec) || Cache() != CacheHooks(rec) {
		t.Error("setting nil replaced installed hooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("setting nil HTTP hooks replaced the default")
	}
}

func TestConcurrentInstallAndEmit(t *testing.T) {
	t.Cleanup(Reset)
	rec := &recorder{}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetCacheHooks(rec)
			}
			Cache().OnCacheHit(ctx, "search")
		}()
	}
	wg.Wait()

	if _, ok := Cache().(*recorder); !ok {
		t.Errorf("Cache() = %T after concurrent installs, want *recorder", Cache())
	}
}
