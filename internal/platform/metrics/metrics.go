package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the claims service. All
// methods are nil-safe so tests can pass a nil *Metrics.
type Metrics struct {
	ClaimsSubmitted prometheus.Counter
	NoticesRecorded *prometheus.CounterVec
	ResponsesIssued *prometheus.CounterVec
	AlertsRaised    *prometheus.CounterVec

	EvaluateLatency prometheus.Histogram
	ComposeLatency  *prometheus.HistogramVec
	RequestLatency  *prometheus.HistogramVec
}

// New creates and registers all instruments on the default registry.
func New() *Metrics {
	return &Metrics{
		ClaimsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "byggekrav_claims_submitted_total",
			Help: "Total claims submitted",
		}),
		NoticesRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "byggekrav_notices_recorded_total",
			Help: "Total notices recorded by notice type",
		}, []string{"type"}),
		ResponsesIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "byggekrav_responses_issued_total",
			Help: "Total responses issued by track",
		}, []string{"track"}),
		AlertsRaised: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "byggekrav_deadline_alerts_total",
			Help: "Deadline alerts raised by severity",
		}, []string{"severity"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "byggekrav_preclusion_evaluate_duration_seconds",
			Help:    "Duration of full preclusion evaluation across tracks",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		ComposeLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "byggekrav_justification_compose_duration_seconds",
			Help:    "Duration of justification composition by track",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}, []string{"track"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "byggekrav_http_request_duration_seconds",
			Help:    "HTTP request duration by route and status class",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),
	}
}

// IncrementClaimsSubmitted records one accepted claim.
func (m *Metrics) IncrementClaimsSubmitted() {
	if m != nil {
		m.ClaimsSubmitted.Inc()
	}
}

// IncrementNoticesRecorded records one notice by type.
func (m *Metrics) IncrementNoticesRecorded(noticeType string) {
	if m != nil {
		m.NoticesRecorded.WithLabelValues(noticeType).Inc()
	}
}

// IncrementResponsesIssued records one issued response by track.
func (m *Metrics) IncrementResponsesIssued(track string) {
	if m != nil {
		m.ResponsesIssued.WithLabelValues(track).Inc()
	}
}

// IncrementAlertsRaised records one raised alert by severity.
func (m *Metrics) IncrementAlertsRaised(severity string) {
	if m != nil {
		m.AlertsRaised.WithLabelValues(severity).Inc()
	}
}

// ObserveEvaluateLatency records a full evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// ObserveComposeLatency records a composition duration by track.
func (m *Metrics) ObserveComposeLatency(track string, d time.Duration) {
	if m != nil {
		m.ComposeLatency.WithLabelValues(track).Observe(d.Seconds())
	}
}

// ObserveRequestLatency records an HTTP request duration.
func (m *Metrics) ObserveRequestLatency(route, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, status).Observe(d.Seconds())
	}
}
