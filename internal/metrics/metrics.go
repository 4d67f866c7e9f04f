// Package metrics exposes Prometheus instrumentation for extraction and eligibility decisions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors of one registry. A nil *Metrics is a valid no-op.
type Metrics struct {
	// Records produced by the segmenter
	ExtractionRecords prometheus.Counter

	// Documents that yielded no experience
	EmptyExtractions prometheus.Counter

	// Decision outcomes by status and mode (first, all, record)
	Decisions *prometheus.CounterVec

	// Duration of one validation request, including storage
	EvaluateLatency prometheus.Histogram
}

// New registers the collectors on reg. A nil reg uses a fresh private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		ExtractionRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "validator_extraction_records_total",
			Help: "Total experience records extracted from recognized text",
		}),
		EmptyExtractions: factory.NewCounter(prometheus.CounterOpts{
			Name: "validator_extraction_empty_total",
			Help: "Total documents in which no experience was found",
		}),
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "validator_decisions_total",
			Help: "Total eligibility decisions by status and mode",
		}, []string{"status", "mode"}),
		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "validator_evaluate_duration_seconds",
			Help:    "Duration of validation requests including storage access",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObserveExtraction records how many records one document produced.
func (m *Metrics) ObserveExtraction(records int) {
	if m == nil {
		return
	}
	if records == 0 {
		m.EmptyExtractions.Inc()
		return
	}
	m.ExtractionRecords.Add(float64(records))
}

// IncrementDecision records a decision outcome.
func (m *Metrics) IncrementDecision(status, mode string) {
	if m != nil {
		m.Decisions.WithLabelValues(status, mode).Inc()
	}
}

// ObserveEvaluateLatency records the duration of one validation.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
