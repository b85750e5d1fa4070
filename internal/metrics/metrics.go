package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for AdPulse.
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// AI metrics
	AIRequests     *prometheus.CounterVec
	AILatency      *prometheus.HistogramVec
	ChatRejections *prometheus.CounterVec

	// Reporting metrics
	CampaignsServed *prometheus.CounterVec
	CSVExports      prometheus.Counter
	SourceErrors    *prometheus.CounterVec
	SourceLatency   *prometheus.HistogramVec

	// System metrics
	ActiveSessions prometheus.Gauge
	DBConnections  *prometheus.GaugeVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

var (
	// DefaultMetrics is the global metrics instance
	DefaultMetrics *Metrics
)

// NewMetrics creates all metrics and registers them with reg. A nil reg
// registers with the Prometheus default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"route"},
		),

		AIRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_requests_total",
				Help:      "Generative model requests by kind and outcome",
			},
			[]string{"kind", "outcome"}, // kind: analysis, chat; outcome: ok, fallback
		),
		AILatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ai_request_duration_seconds",
				Help:      "Generative model latency in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
			},
			[]string{"kind"},
		),
		ChatRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chat_rejections_total",
				Help:      "Chat messages rejected before reaching the model",
			},
			[]string{"reason"}, // empty, pending
		),

		CampaignsServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "campaigns_served_total",
				Help:      "Campaign records returned after filtering",
			},
			[]string{"platform"},
		),
		CSVExports: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "csv_exports_total",
				Help:      "CSV exports generated",
			},
		),
		SourceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "source_errors_total",
				Help:      "Campaign source read failures",
			},
			[]string{"source"},
		),
		SourceLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "source_latency_seconds",
				Help:      "Campaign source read latency",
				Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"source"},
		),

		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Number of live dashboard sessions",
			},
		),
		DBConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections",
				Help:      "Database connection pool stats",
			},
			[]string{"state"}, // idle, in_use, total
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Rate limit rejections",
			},
			[]string{"limiter"},
		),
	}

	DefaultMetrics = m
	return m
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor serves the metrics of a specific registry.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, latency time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(route).Observe(latency.Seconds())
}

// RecordAIRequest records a model call. ok is false when the fallback text was used.
func (m *Metrics) RecordAIRequest(kind string, ok bool, latency time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "fallback"
	}
	m.AIRequests.WithLabelValues(kind, outcome).Inc()
	m.AILatency.WithLabelValues(kind).Observe(latency.Seconds())
}

// RecordChatRejection records a chat message refused before any model call.
func (m *Metrics) RecordChatRejection(reason string) {
	m.ChatRejections.WithLabelValues(reason).Inc()
}

// RecordCampaignsServed records how many records a filtered read returned.
func (m *Metrics) RecordCampaignsServed(platform string, n int) {
	m.CampaignsServed.WithLabelValues(platform).Add(float64(n))
}

// RecordCSVExport records a generated export.
func (m *Metrics) RecordCSVExport() {
	m.CSVExports.Inc()
}

// RecordSourceRead records a campaign source read.
func (m *Metrics) RecordSourceRead(source string, err error, latency time.Duration) {
	m.SourceLatency.WithLabelValues(source).Observe(latency.Seconds())
	if err != nil {
		m.SourceErrors.WithLabelValues(source).Inc()
	}
}

// UpdateDBStats updates database connection metrics.
func (m *Metrics) UpdateDBStats(idle, inUse, total int) {
	m.DBConnections.WithLabelValues("idle").Set(float64(idle))
	m.DBConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues("total").Set(float64(total))
}

// SetActiveSessions updates the live session gauge.
func (m *Metrics) SetActiveSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(limiter string) {
	m.RateLimitHits.WithLabelValues(limiter).Inc()
}
