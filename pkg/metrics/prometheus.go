// Package metrics provides Prometheus metrics for the lineup workbench.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Submission outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeBusy      = "busy"
	OutcomeUserInput = "user_input"
	OutcomeTransport = "transport"
	OutcomeContract  = "contract"
	OutcomeTimeout   = "timeout"
	OutcomeCancelled = "cancelled"
)

// Manager owns every workbench metric.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Pool ingestion
	rowsIngested prometheus.Counter
	rowsSkipped  prometheus.Counter
	poolSize     prometheus.Gauge

	// Optimization
	submissions        *prometheus.CounterVec
	submissionDuration *prometheus.HistogramVec
	pendingSubmissions prometheus.Gauge
	lineupsReturned    prometheus.Counter
	backendAttempts    *prometheus.CounterVec

	// Results
	exports prometheus.Counter
	saves   prometheus.Counter

	// Sessions
	activeSessions  prometheus.Gauge
	expiredSessions prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// Runtime
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dfs",
		subsystem:        "workbench",
		histogramBuckets: []float64{5, 25, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		refreshInterval:  defaultRefreshInterval,
		customLabels:     map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels, Buckets: m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsIngested = auto.NewCounter(m.counterOpts("pool_rows_ingested_total",
		"Total number of player rows accepted from uploaded pools"))
	m.rowsSkipped = auto.NewCounter(m.counterOpts("pool_rows_skipped_total",
		"Total number of uploaded rows skipped with a warning"))
	m.poolSize = auto.NewGauge(m.gaugeOpts("pool_size_last",
		"Player count of the most recently loaded pool"))

	m.submissions = auto.NewCounterVec(m.counterOpts("submissions_total",
		"Optimization submissions by outcome"), []string{"outcome"})
	m.submissionDuration = auto.NewHistogramVec(m.histogramOpts("submission_duration_milliseconds",
		"Wall time from submit to settled result in milliseconds"), []string{"outcome"})
	m.pendingSubmissions = auto.NewGauge(m.gaugeOpts("pending_submissions",
		"Submissions currently awaiting the optimization backend"))
	m.lineupsReturned = auto.NewCounter(m.counterOpts("lineups_returned_total",
		"Total number of lineups received from the optimization backend"))
	m.backendAttempts = auto.NewCounterVec(m.counterOpts("backend_attempts_total",
		"Requests sent to optimization backend targets"), []string{"op", "target", "outcome"})

	m.exports = auto.NewCounter(m.counterOpts("exports_total", "Total number of lineup CSV exports"))
	m.saves = auto.NewCounter(m.counterOpts("saves_total", "Total number of lineups saved to the archive"))

	m.activeSessions = auto.NewGauge(m.gaugeOpts("active_sessions", "Number of live workbench sessions"))
	m.expiredSessions = auto.NewCounter(m.counterOpts("sessions_expired_total",
		"Total number of sessions removed after going idle"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// Ingest records one parsed upload.
func (m *Manager) Ingest(accepted, skipped int) {
	m.rowsIngested.Add(float64(accepted))
	m.rowsSkipped.Add(float64(skipped))
	m.poolSize.Set(float64(accepted))
}

// Submission records a settled submission.
func (m *Manager) Submission(outcome string, d time.Duration, lineups int) {
	m.submissions.WithLabelValues(outcome).Inc()
	if outcome != OutcomeBusy {
		m.submissionDuration.WithLabelValues(outcome).Observe(float64(d.Milliseconds()))
	}
	if lineups > 0 {
		m.lineupsReturned.Add(float64(lineups))
	}
}

// Pending adjusts the in-flight submission gauge by delta.
func (m *Manager) Pending(delta int) { m.pendingSubmissions.Add(float64(delta)) }

// BackendAttempt records one request to a backend target.
func (m *Manager) BackendAttempt(op, target, outcome string) {
	m.backendAttempts.WithLabelValues(op, target, outcome).Inc()
}

// Sessions sets the live session gauge.
func (m *Manager) Sessions(n int) { m.activeSessions.Set(float64(n)) }

// SessionsExpired counts swept sessions.
func (m *Manager) SessionsExpired(n int) { m.expiredSessions.Add(float64(n)) }

// UpdateRuntime samples memory and goroutine gauges.
func (m *Manager) UpdateRuntime() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.HeapAlloc))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// Run refreshes runtime gauges every refresh interval until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	t := time.NewTicker(m.refreshInterval)
	defer t.Stop()
	m.UpdateRuntime()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.UpdateRuntime()
		}
	}
}

// RecordIngest records an upload on the global manager.
func RecordIngest(accepted, skipped int) { globalManager.Ingest(accepted, skipped) }

// RecordSubmission records a settled submission on the global manager.
func RecordSubmission(outcome string, d time.Duration, lineups int) {
	globalManager.Submission(outcome, d, lineups)
}

// AddPending adjusts the global in-flight submission gauge.
func AddPending(delta int) { globalManager.Pending(delta) }

// RecordBackendAttempt records one request to a backend target.
func RecordBackendAttempt(op, target, outcome string) {
	globalManager.BackendAttempt(op, target, outcome)
}

// RecordExport increments the export counter.
func RecordExport() { globalManager.exports.Inc() }

// RecordSave increments the archive save counter.
func RecordSave() { globalManager.saves.Inc() }

// UpdateActiveSessions sets the live session gauge.
func UpdateActiveSessions(n int) { globalManager.Sessions(n) }

// RecordSessionsExpired counts swept sessions.
func RecordSessionsExpired(n int) { globalManager.SessionsExpired(n) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RunRuntimeCollector refreshes the global runtime gauges until ctx is done.
func RunRuntimeCollector(ctx context.Context) { globalManager.Run(ctx) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
