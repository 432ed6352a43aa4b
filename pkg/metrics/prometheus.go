// Package metrics provides Prometheus metrics for the WordRush leaderboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	scoresSubmitted      *prometheus.CounterVec
	scoresRejected       *prometheus.CounterVec
	personalBestImproved prometheus.Counter
	staleEntriesRemoved  prometheus.Counter

	// Collaborator health metrics
	storeErrors    *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec

	// Board state metrics
	leaderboardSize *prometheus.GaugeVec
	allTimeEntries  *prometheus.GaugeVec

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wordrush",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoresSubmitted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "scores_submitted_total",
			Help:      "Total number of accepted score submissions",
		},
		[]string{"mode"},
	)

	m.scoresRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "scores_rejected_total",
			Help:      "Total number of rejected score submissions",
		},
		[]string{"reason"},
	)

	m.personalBestImproved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "personal_best_improved_total",
		Help:      "Total number of submissions that beat the player's stored best",
	})

	m.staleEntriesRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_entries_removed_total",
		Help:      "Total number of stale leaderboard ids cleaned up on read",
	})

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_errors_total",
			Help:      "Total number of ranking store call failures",
		},
		[]string{"op"},
	)

	m.upstreamErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_errors_total",
			Help:      "Total number of inference/transcription upstream failures",
		},
		[]string{"service"},
	)

	m.leaderboardSize = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "board_size",
			Help:      "Entries currently on the bounded display board",
		},
		[]string{"mode"},
	)

	m.allTimeEntries = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "all_time_entries",
			Help:      "Entries in the unbounded all-time set",
		},
		[]string{"mode"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Histogram of HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordScoreSubmitted increments the accepted submissions counter.
func RecordScoreSubmitted(mode string) {
	globalManager.scoresSubmitted.WithLabelValues(mode).Inc()
}

// RecordScoreRejected increments the rejected submissions counter.
func RecordScoreRejected(reason string) {
	globalManager.scoresRejected.WithLabelValues(reason).Inc()
}

// RecordPersonalBestImproved increments the improved-best counter.
func RecordPersonalBestImproved() {
	globalManager.personalBestImproved.Inc()
}

// RecordStaleEntryRemoved increments the stale cleanup counter.
func RecordStaleEntryRemoved() {
	globalManager.staleEntriesRemoved.Inc()
}

// RecordStoreError increments the store failure counter for an operation.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordUpstreamError increments the upstream failure counter for a service.
func RecordUpstreamError(service string) {
	globalManager.upstreamErrors.WithLabelValues(service).Inc()
}

// UpdateLeaderboardSize sets the current display board size for a mode.
func UpdateLeaderboardSize(mode string, size int) {
	globalManager.leaderboardSize.WithLabelValues(mode).Set(float64(size))
}

// UpdateAllTimeEntries sets the all-time set size for a mode.
func UpdateAllTimeEntries(mode string, count int) {
	globalManager.allTimeEntries.WithLabelValues(mode).Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
