// Package metrics provides Prometheus metrics for the hobbyseeds service.
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// candidateBuckets covers catalog-sized candidate lists.
var candidateBuckets = []float64{0, 1, 2, 4, 8, 12, 16, 24, 32, 64} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the hobbyseeds service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Recommendation metrics
	diagnosisRequests   *prometheus.CounterVec
	diagnosisCandidates prometheus.Histogram
	samplerDraws        *prometheus.CounterVec
	stepUpMatches       prometheus.Histogram
	stepUpUnlocked      prometheus.Gauge

	// Log metrics
	logMutations    *prometheus.CounterVec
	logDuplicates   prometheus.Counter
	logEntries      prometheus.Gauge
	logGreatCount   prometheus.Gauge
	logStoreErrors  *prometheus.CounterVec
	logStoreLatency *prometheus.HistogramVec
	writerLatency   prometheus.Histogram
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueRejected   prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemGoroutineCount prometheus.Gauge
	systemMemoryUsage    prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hobbyseeds",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.diagnosisRequests = m.counterVec("diagnosis_requests_total",
		"Diagnosis requests by energy and disposition", "energy", "activity")
	m.diagnosisCandidates = m.histogram("diagnosis_candidates",
		"Hobbies left after the candidate filter", candidateBuckets)
	m.samplerDraws = m.counterVec("sampler_draws_total",
		"Sampler draws by mode", "mode")
	m.stepUpMatches = m.histogram("stepup_matches",
		"Step-up hobbies matched per recommendation", candidateBuckets)
	m.stepUpUnlocked = m.gauge("stepup_unlocked",
		"1 when step-up hobbies are unlocked")

	m.logMutations = m.counterVec("log_mutations_total",
		"Hobby log mutations by kind and outcome", "kind", "outcome")
	m.logDuplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "log_duplicate_requests_total",
		Help:      "Log appends skipped because the request id was already applied",
	})
	m.logEntries = m.gauge("log_entries", "Entries in the persisted hobby log")
	m.logGreatCount = m.gauge("log_great_count", "Great ratings in the persisted hobby log")
	m.logStoreErrors = m.counterVec("log_store_errors_total",
		"Log store failures by operation", "op")
	m.logStoreLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "log_store_latency_milliseconds",
		Help:      "Log store operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"backend", "op"})
	m.writerLatency = m.histogram("writer_latency_milliseconds",
		"Time the writer spends applying one mutation", m.histogramBuckets)
	m.queueSize = m.gauge("queue_size", "Mutations waiting for the writer")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queued mutations")
	m.queueRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_rejected_total",
		Help:      "Mutations rejected because the queue was full",
	})

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
}

// RecordDiagnosis counts one diagnosis and the size of its candidate list.
func RecordDiagnosis(energy, activity string, candidates int) {
	globalManager.diagnosisRequests.WithLabelValues(energy, activity).Inc()
	globalManager.diagnosisCandidates.Observe(float64(candidates))
}

// RecordSamplerDraw counts a sampler draw of the given mode.
func RecordSamplerDraw(mode string) {
	globalManager.samplerDraws.WithLabelValues(mode).Inc()
}

// RecordStepUpMatches observes how many step-ups a recommendation matched.
func RecordStepUpMatches(n int) {
	globalManager.stepUpMatches.Observe(float64(n))
}

// RecordLogMutation counts an applied or failed log mutation.
func RecordLogMutation(kind, outcome string) {
	globalManager.logMutations.WithLabelValues(kind, outcome).Inc()
}

// RecordLogDuplicate counts a replayed append.
func RecordLogDuplicate() {
	globalManager.logDuplicates.Inc()
}

// UpdateLogState publishes the size of the log and the unlock state.
func UpdateLogState(entries, greatCount int, unlocked bool) {
	globalManager.logEntries.Set(float64(entries))
	globalManager.logGreatCount.Set(float64(greatCount))
	if unlocked {
		globalManager.stepUpUnlocked.Set(1)
	} else {
		globalManager.stepUpUnlocked.Set(0)
	}
}

// RecordLogStoreError counts a failed store operation.
func RecordLogStoreError(op string) {
	globalManager.logStoreErrors.WithLabelValues(op).Inc()
}

// RecordLogStoreLatency observes a store operation latency in milliseconds.
func RecordLogStoreLatency(backend, op string, latencyMs float64) {
	globalManager.logStoreLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// RecordWriterLatency observes the time to apply one mutation.
func RecordWriterLatency(latencyMs float64) {
	globalManager.writerLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueRejected counts a mutation refused for backpressure.
func RecordQueueRejected() {
	globalManager.queueRejected.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMetrics samples goroutine count and heap usage.
func UpdateSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
	globalManager.systemMemoryUsage.Set(float64(ms.HeapAlloc))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
