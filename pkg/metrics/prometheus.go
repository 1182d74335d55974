// Package metrics provides Prometheus metrics for the realm service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector realm exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Domain
	actions              *prometheus.CounterVec
	actionErrors         *prometheus.CounterVec
	actionLatency        prometheus.Histogram
	duplicates           prometheus.Counter
	snapshotsSaved       prometheus.Counter
	opportunitiesAdded   prometheus.Counter
	historyLength        prometheus.Gauge
	opportunityCount     prometheus.Gauge
	recommendationsShown prometheus.Gauge

	// Storage
	storageOps       *prometheus.CounterVec
	storageLatency   *prometheus.HistogramVec
	persistFailures  prometheus.Counter
	historyFallbacks prometheus.Counter

	// Dispatch queue
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueRejected  *prometheus.CounterVec
	dispatchWaitMs prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "realm",
		subsystem:        "scoring",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.actions = m.counterVec("actions_total", "Actions applied by the reducer", "kind")
	m.actionErrors = m.counterVec("action_errors_total", "Actions rejected by the reducer", "kind")
	m.actionLatency = m.histogram("action_latency_milliseconds", "Time to apply one action")
	m.duplicates = m.counter("duplicate_requests_total", "Replayed request ids that were skipped")
	m.snapshotsSaved = m.counter("snapshots_saved_total", "Snapshots appended to the history")
	m.opportunitiesAdded = m.counter("opportunities_added_total", "Opportunities recorded")
	m.historyLength = m.gauge("history_length", "Snapshots in the history log")
	m.opportunityCount = m.gauge("opportunity_count", "Opportunities in memory")
	m.recommendationsShown = m.gauge("recommendations_active", "Dimensions currently below the advice threshold")

	m.storageOps = m.counterVec("storage_operations_total", "Storage reads and writes", "driver", "op", "result")
	m.storageLatency = m.histogramVec("storage_latency_milliseconds", "Storage operation latency", "driver", "op")
	m.persistFailures = m.counter("history_persist_failures_total", "History writes that failed")
	m.historyFallbacks = m.counter("history_load_fallbacks_total", "Startups that fell back to an empty history")

	m.queueSize = m.gauge("queue_size", "Actions waiting to be applied")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queued actions")
	m.queueRejected = m.counterVec("queue_rejected_total", "Actions refused by the queue", "reason")
	m.dispatchWaitMs = m.histogram("dispatch_wait_milliseconds", "Time from enqueue to result")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration", "endpoint", "method", "status_code")
	m.errorsByEndpoint = m.counterVec("http_errors_total", "HTTP errors by endpoint and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordAction counts an applied action.
func RecordAction(kind string, latencyMs float64) {
	globalManager.actions.WithLabelValues(kind).Inc()
	globalManager.actionLatency.Observe(latencyMs)
}

// RecordActionError counts a rejected action.
func RecordActionError(kind string) {
	globalManager.actionErrors.WithLabelValues(kind).Inc()
}

// RecordDuplicate counts a skipped replay.
func RecordDuplicate() { globalManager.duplicates.Inc() }

// RecordSnapshotSaved counts a saved snapshot.
func RecordSnapshotSaved() { globalManager.snapshotsSaved.Inc() }

// RecordOpportunityAdded counts a new opportunity.
func RecordOpportunityAdded() { globalManager.opportunitiesAdded.Inc() }

// UpdateStateGauges refreshes the state-derived gauges.
func UpdateStateGauges(historyLen, opportunities, recommendations int) {
	globalManager.historyLength.Set(float64(historyLen))
	globalManager.opportunityCount.Set(float64(opportunities))
	globalManager.recommendationsShown.Set(float64(recommendations))
}

// RecordStorageOp records one storage call.
func RecordStorageOp(driver, op string, err error, latencyMs float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	globalManager.storageOps.WithLabelValues(driver, op, result).Inc()
	globalManager.storageLatency.WithLabelValues(driver, op).Observe(latencyMs)
}

// RecordPersistFailure counts a failed history write.
func RecordPersistFailure() { globalManager.persistFailures.Inc() }

// RecordHistoryFallback counts a startup with an unusable stored history.
func RecordHistoryFallback() { globalManager.historyFallbacks.Inc() }

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue bound.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueRejected counts a refused enqueue.
func RecordQueueRejected(reason string) { globalManager.queueRejected.WithLabelValues(reason).Inc() }

// RecordDispatchWait observes the enqueue-to-result time.
func RecordDispatchWait(ms float64) { globalManager.dispatchWaitMs.Observe(ms) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts an HTTP error.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
