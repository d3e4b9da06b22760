package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CacheOperation identifies the cache method being instrumented.
type CacheOperation string

const (
	// CacheOperationLookup records catalog cache lookup calls.
	CacheOperationLookup CacheOperation = "lookup"
	// CacheOperationUpsert records catalog cache upsert attempts.
	CacheOperationUpsert CacheOperation = "upsert"
)

// CacheLookupOutcome captures the result of a cache lookup.
type CacheLookupOutcome string

const (
	// CacheLookupHit indicates the lookup reused a cached answer.
	CacheLookupHit CacheLookupOutcome = "hit"
	// CacheLookupMiss indicates no cached answer was present.
	CacheLookupMiss CacheLookupOutcome = "miss"
	// CacheLookupError indicates the lookup failed due to an error.
	CacheLookupError CacheLookupOutcome = "error"
)

// CacheUpsertOutcome captures the result of a cache upsert attempt.
type CacheUpsertOutcome string

const (
	// CacheUpsertStored indicates the cache entry was persisted.
	CacheUpsertStored CacheUpsertOutcome = "stored"
	// CacheUpsertError indicates the upsert failed.
	CacheUpsertError CacheUpsertOutcome = "error"
)

// Recorder publishes Prometheus metrics for catalog activity.
type Recorder struct {
	gatherer prometheus.Gatherer
	handler  http.Handler

	catalogRequests *prometheus.CounterVec
	catalogLatency  *prometheus.HistogramVec

	cacheOperations *prometheus.CounterVec
	cacheLatency    *prometheus.HistogramVec

	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a
// dedicated registry is created so multiple recorders can coexist without
// conflicting with the global default registerer.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	catalogRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogd",
		Subsystem: "catalog",
		Name:      "requests_total",
		Help:      "Total catalog requests processed by the service.",
	}, []string{"action", "outcome", "from_cache"})

	catalogLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalogd",
		Subsystem: "catalog",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for completed catalog requests.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"action", "outcome"})

	cacheOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogd",
		Subsystem: "cache",
		Name:      "operations_total",
		Help:      "Cache store operations executed by the service.",
	}, []string{"operation", "result"})

	cacheLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalogd",
		Subsystem: "cache",
		Name:      "operation_duration_seconds",
		Help:      "Latency distribution for cache store operations.",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	}, []string{"operation", "result"})

	upstreamCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogd",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Provider calls issued by the upstream adapter.",
	}, []string{"operation", "result"})

	upstreamLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalogd",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for provider calls.",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"operation", "result"})

	reg.MustRegister(catalogRequests, catalogLatency, cacheOperations, cacheLatency, upstreamCalls, upstreamLatency)

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	return &Recorder{
		gatherer:        reg,
		handler:         handler,
		catalogRequests: catalogRequests,
		catalogLatency:  catalogLatency,
		cacheOperations: cacheOperations,
		cacheLatency:    cacheLatency,
		upstreamCalls:   upstreamCalls,
		upstreamLatency: upstreamLatency,
	}
}

// Handler exposes the Prometheus HTTP handler for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics unavailable", http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

// Gatherer returns the underlying Prometheus gatherer for tests and advanced
// integrations.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.gatherer
}

// ObserveRequest records the outcome and latency for a completed catalog
// request.
func (r *Recorder) ObserveRequest(action, outcome string, fromCache bool, duration time.Duration) {
	if r == nil {
		return
	}
	actionLabel := normalizeLabel(action)
	outcomeLabel := normalizeLabel(outcome)
	cacheLabel := "false"
	if fromCache {
		cacheLabel = "true"
	}
	r.catalogRequests.WithLabelValues(actionLabel, outcomeLabel, cacheLabel).Inc()
	r.catalogLatency.WithLabelValues(actionLabel, outcomeLabel).Observe(duration.Seconds())
}

// ObserveCacheLookup records the result of a cache lookup.
func (r *Recorder) ObserveCacheLookup(result CacheLookupOutcome, duration time.Duration) {
	if r == nil {
		return
	}
	resultLabel := string(result)
	if resultLabel == "" {
		resultLabel = string(CacheLookupMiss)
	}
	r.observeCache(CacheOperationLookup, resultLabel, duration)
}

// ObserveCacheUpsert records the result of a cache upsert attempt.
func (r *Recorder) ObserveCacheUpsert(result CacheUpsertOutcome, duration time.Duration) {
	if r == nil {
		return
	}
	resultLabel := string(result)
	if resultLabel == "" {
		resultLabel = string(CacheUpsertError)
	}
	r.observeCache(CacheOperationUpsert, resultLabel, duration)
}

// ObserveUpstream records the result of one provider call.
func (r *Recorder) ObserveUpstream(operation string, err error, duration time.Duration) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	opLabel := normalizeLabel(operation)
	r.upstreamCalls.WithLabelValues(opLabel, result).Inc()
	r.upstreamLatency.WithLabelValues(opLabel, result).Observe(duration.Seconds())
}

func (r *Recorder) observeCache(operation CacheOperation, result string, duration time.Duration) {
	opLabel := string(operation)
	if opLabel == "" {
		opLabel = string(CacheOperationLookup)
	}
	resLabel := normalizeLabel(result)
	r.cacheOperations.WithLabelValues(opLabel, resLabel).Inc()
	r.cacheLatency.WithLabelValues(opLabel, resLabel).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
