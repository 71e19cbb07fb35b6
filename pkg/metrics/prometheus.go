package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	evaluations *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	confidence  *prometheus.HistogramVec
	upstream    *prometheus.CounterVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assemblief_evaluations_total",
				Help: "Total number of completed evaluations",
			},
			[]string{"kind", "status"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assemblief_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assemblief_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		confidence: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assemblief_confidence_score",
				Help:    "Confidence scores assigned to ranked strategies",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"strategy"},
		),
		upstream: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assemblief_upstream_requests_total",
				Help: "Market data provider calls by result",
			},
			[]string{"provider", "result"},
		),
	}
}

// RecordEvaluation counts a finished evaluation.
func (r *Recorder) RecordEvaluation(kind, status string) {
	r.evaluations.WithLabelValues(kind, status).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordConfidence observes a strategy confidence score.
func (r *Recorder) RecordConfidence(strategy string, score float64) {
	r.confidence.WithLabelValues(strategy).Observe(score)
}

// RecordUpstream counts a provider call outcome.
func (r *Recorder) RecordUpstream(provider, result string) {
	r.upstream.WithLabelValues(provider, result).Inc()
}
