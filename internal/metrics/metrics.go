// Package metrics exposes batch normalization counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"urlcanon/internal/normalizer"
)

// Metrics implements normalizer.Recorder.
type Metrics struct {
	candidates *prometheus.CounterVec
	batches    prometheus.Counter
	duration   prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		candidates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "urlcanon_candidates_total",
			Help: "The total number of candidate URLs, by outcome.",
		}, []string{"result"}),
		batches: factory.NewCounter(prometheus.CounterOpts{
			Name: "urlcanon_batches_total",
			Help: "The total number of batch runs.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "urlcanon_batch_duration_seconds",
			Help:    "Time spent extracting and normalizing one batch.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

// RecordCandidate counts one candidate by outcome.
func (m *Metrics) RecordCandidate(normalized bool) {
	result := "dropped"
	if normalized {
		result = "normalized"
	}
	m.candidates.WithLabelValues(result).Inc()
}

// RecordBatch counts a finished run and observes its duration.
func (m *Metrics) RecordBatch(stats normalizer.Stats) {
	m.batches.Inc()
	m.duration.Observe(stats.Duration.Seconds())
}
