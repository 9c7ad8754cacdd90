package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/task-recommender/internal/models"
)

// Signal labels used when a recommendation input degrades to empty.
const (
	SignalStudent       = "student"
	SignalPreferences   = "preferences"
	SignalCompleted     = "completed_tasks"
	SignalCatalog       = "catalog"
	SignalProgress      = "theme_progress"
	SignalThemes        = "themes"
	SignalExamResults   = "exam_results"
	SignalExamTaskLinks = "exam_task_links"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry               *prometheus.Registry
	handler                http.Handler
	requestDuration        *prometheus.HistogramVec
	requestTotal           *prometheus.CounterVec
	cacheLatency           prometheus.Observer
	cacheWrite             prometheus.Observer
	cacheHitRatio          prometheus.Gauge
	cacheHits              prometheus.Counter
	cacheMisses            prometheus.Counter
	dbQueryDuration        *prometheus.HistogramVec
	recommendations        *prometheus.CounterVec
	recommendationDuration *prometheus.HistogramVec
	degradedSignals        *prometheus.CounterVec
	modelBuildFailures     prometheus.Counter

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	dbQueryCount         uint64
	dbQueryDurationTotal uint64
	recommendationCount  uint64
	degradedCount        uint64
	buildFailureCount    uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of catalog queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	recommendations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendations_total",
		Help: "Recommendation runs by mode and outcome",
	}, []string{"mode", "outcome"})

	recommendationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommendation_duration_seconds",
		Help:    "End-to-end duration of a recommendation run",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	degradedSignals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_signal_degraded_total",
		Help: "Catalog reads that failed and were replaced by an empty signal",
	}, []string{"signal"})

	modelBuildFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collaborative_model_build_failures_total",
		Help: "Collaborative model builds that produced no model",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration, requestTotal,
		cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		dbQueryDuration,
		recommendations, recommendationDuration, degradedSignals, modelBuildFailures,
		goroutines,
	)

	return &MetricsService{
		registry:               registry,
		handler:                promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:        requestDuration,
		requestTotal:           requestTotal,
		cacheLatency:           cacheLatency,
		cacheWrite:             cacheWrite,
		cacheHitRatio:          cacheHitRatio,
		cacheHits:              cacheHits,
		cacheMisses:            cacheMisses,
		dbQueryDuration:        dbQueryDuration,
		recommendations:        recommendations,
		recommendationDuration: recommendationDuration,
		degradedSignals:        degradedSignals,
		modelBuildFailures:     modelBuildFailures,
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records catalog query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.dbQueryCount, 1)
	atomic.AddUint64(&m.dbQueryDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveRecommendation counts a finished run. outcome is "ok", "empty" or "unknown_student".
func (m *MetricsService) ObserveRecommendation(mode models.RecommendationMode, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.recommendations.WithLabelValues(string(mode), outcome).Inc()
	m.recommendationDuration.WithLabelValues(string(mode)).Observe(duration.Seconds())
	atomic.AddUint64(&m.recommendationCount, 1)
}

// RecordDegradedSignal counts an input that fell back to empty after a read failure.
func (m *MetricsService) RecordDegradedSignal(signal string) {
	if m == nil {
		return
	}
	m.degradedSignals.WithLabelValues(signal).Inc()
	atomic.AddUint64(&m.degradedCount, 1)
}

// RecordModelBuildFailure counts a collaborative model that could not be fitted.
func (m *MetricsService) RecordModelBuildFailure() {
	if m == nil {
		return
	}
	m.modelBuildFailures.Inc()
	atomic.AddUint64(&m.buildFailureCount, 1)
}

// Snapshot returns aggregated metrics suitable for JSON endpoints.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	dbCount := atomic.LoadUint64(&m.dbQueryCount)
	dbDuration := atomic.LoadUint64(&m.dbQueryDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgDBMs float64
	if dbCount > 0 {
		avgDBMs = float64(dbDuration) / float64(dbCount) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RecommendationsServed:    atomic.LoadUint64(&m.recommendationCount),
		DegradedSignals:          atomic.LoadUint64(&m.degradedCount),
		ModelBuildFailures:       atomic.LoadUint64(&m.buildFailureCount),
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DBQueryCount:             dbCount,
		AverageDBQueryDurationMs: avgDBMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
