package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements PipelineHooks, CacheHooks and HTTPHooks by updating
// Prometheus collectors.
type Prometheus struct {
	fetches        *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	fetchRecords   *prometheus.CounterVec
	cacheEvents    *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	cacheClears    prometheus.Counter
	upstreamReqs   *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
	upstreamTime   *prometheus.HistogramVec
}

// NewPrometheus registers the tubetrend collectors with reg.
// Registering twice on the same registry panics.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tubetrend_fetches_total",
			Help: "Upstream fetches by kind and outcome (ok or error)",
		}, []string{"kind", "outcome"}),
		fetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tubetrend_fetch_duration_seconds",
			Help:    "Duration of upstream fetches including normalization",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		fetchRecords: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tubetrend_fetch_records_total",
			Help: "Records produced by successful fetches",
		}, []string{"kind", "region"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tubetrend_cache_events_total",
			Help: "Cache reads and writes by kind and event (hit, miss or set)",
		}, []string{"kind", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tubetrend_cache_written_bytes_total",
			Help: "Bytes written to the response cache",
		}, []string{"kind"}),
		cacheClears: f.NewCounter(prometheus.CounterOpts{
			Name: "tubetrend_cache_clears_total",
			Help: "Manual cache clears",
		}),
		upstreamReqs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tubetrend_upstream_responses_total",
			Help: "Upstream API responses by path and status code",
		}, []string{"path", "code"}),
		upstreamErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tubetrend_upstream_errors_total",
			Help: "Upstream API requests that failed before a response",
		}, []string{"path"}),
		upstreamTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tubetrend_upstream_duration_seconds",
			Help:    "Upstream API round-trip time",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

func (p *Prometheus) OnFetchStart(context.Context, string, string) {}

func (p *Prometheus) OnFetchComplete(_ context.Context, kind, region string, records int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.fetches.WithLabelValues(kind, outcome).Inc()
	p.fetchDuration.WithLabelValues(kind).Observe(d.Seconds())
	if err == nil {
		p.fetchRecords.WithLabelValues(kind, region).Add(float64(records))
	}
}

func (p *Prometheus) OnCacheHit(_ context.Context, kind string) {
	p.cacheEvents.WithLabelValues(kind, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, kind string) {
	p.cacheEvents.WithLabelValues(kind, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, kind string, size int) {
	p.cacheEvents.WithLabelValues(kind, "set").Inc()
	p.cacheBytes.WithLabelValues(kind).Add(float64(size))
}

func (p *Prometheus) OnCacheClear(context.Context) {
	p.cacheClears.Inc()
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, _, _, path string, code int, d time.Duration) {
	p.upstreamReqs.WithLabelValues(path, statusLabel(code)).Inc()
	p.upstreamTime.WithLabelValues(path).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, _, _, path string, _ error) {
	p.upstreamErrors.WithLabelValues(path).Inc()
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
