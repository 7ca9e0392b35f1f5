package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Recording metrics
	eventsRecorded    *prometheus.CounterVec
	recordingRejected *prometheus.CounterVec
	duplicateRequests prometheus.Counter
	logResets         prometheus.Counter
	exports           prometheus.Counter
	logSize           prometheus.Gauge

	// Audit pipeline metrics
	auditDelivered prometheus.Counter
	auditFailed    prometheus.Counter
	auditDropped   prometheus.Counter
	auditQueueSize prometheus.Gauge

	// Live-update metrics
	wsClients         prometheus.Gauge
	wsMessagesSent    prometheus.Counter
	wsMessagesDropped prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager on a custom registry, so default Go runtime collectors do
// not pollute the scrape.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skudd",
		subsystem:        "match",
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

	m.eventsRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_recorded_total",
		Help:      "Total recorded events by mode and result",
	}, []string{"mode", "result"})

	m.recordingRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recordings_rejected_total",
		Help:      "Total recording attempts rejected by validation, by reason",
	}, []string{"reason"})

	m.duplicateRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_requests_total",
		Help:      "Total retried recording requests answered from the idempotency guard",
	})

	m.logResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "log_resets_total",
		Help:      "Total whole-log resets",
	})

	m.exports = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "exports_total",
		Help:      "Total snapshot exports",
	})

	m.logSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_log_size",
		Help:      "Current number of events in the log",
	})

	m.auditDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "audit_delivered_total",
		Help:      "Total audit records delivered to the sink",
	})

	m.auditFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "audit_failed_total",
		Help:      "Total audit deliveries that failed (never propagated to recording)",
	})

	m.auditDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "audit_dropped_total",
		Help:      "Total audit records dropped on queue backpressure",
	})

	m.auditQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "audit_queue_size",
		Help:      "Current audit queue backlog",
	})

	m.wsClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ws_clients",
		Help:      "Currently connected live-update clients",
	})

	m.wsMessagesSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ws_messages_sent_total",
		Help:      "Total live updates delivered over websockets",
	})

	m.wsMessagesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ws_messages_dropped_total",
		Help:      "Total live updates dropped for slow clients",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// GetRegistry returns the registry backing the global manager, for the
// /healthz scrape handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording on the global manager.

func RecordEvent(mode, result string) {
	globalManager.eventsRecorded.WithLabelValues(mode, result).Inc()
}

func RecordRejection(reason string) {
	globalManager.recordingRejected.WithLabelValues(reason).Inc()
}

func RecordDuplicateRequest() { globalManager.duplicateRequests.Inc() }

func RecordReset() { globalManager.logResets.Inc() }

func RecordExport() { globalManager.exports.Inc() }

func UpdateLogSize(n int) { globalManager.logSize.Set(float64(n)) }

func RecordAuditDelivered() { globalManager.auditDelivered.Inc() }

func RecordAuditFailed() { globalManager.auditFailed.Inc() }

func RecordAuditDropped() { globalManager.auditDropped.Inc() }

func UpdateAuditQueueSize(n int) { globalManager.auditQueueSize.Set(float64(n)) }

func UpdateWSClients(n int) { globalManager.wsClients.Set(float64(n)) }

func RecordWSMessageSent() { globalManager.wsMessagesSent.Inc() }

func RecordWSMessageDropped() { globalManager.wsMessagesDropped.Inc() }

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}
