package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Item classification outcomes.
const (
	OutcomeCompatible   = "compatible"
	OutcomeWarning      = "warning"
	OutcomeIncompatible = "incompatible"
)

// Metrics provides observability for dietary matching.
type Metrics struct {
	// Item classifications by outcome
	ItemOutcomes *prometheus.CounterVec

	// Batches processed, split by whether the fast path was taken
	Batches *prometheus.CounterVec

	// Exclusions by recorded severity
	Exclusions *prometheus.CounterVec

	BatchLatency prometheus.Histogram
}

// New registers the matching metrics with the default registry. Call once per process.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the matching metrics with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ItemOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bytebasket_dietary_match_items_total",
			Help: "Inventory items classified by the dietary matcher, by outcome",
		}, []string{"outcome"}),

		Batches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bytebasket_dietary_match_batches_total",
			Help: "Matching batches processed",
		}, []string{"path"}), // path: "full", "no_restrictions"

		Exclusions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bytebasket_dietary_exclusions_total",
			Help: "Excluded items by the severity recorded for the exclusion",
		}, []string{"severity"}),

		BatchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bytebasket_dietary_match_duration_seconds",
			Help:    "Duration of a matching batch including the preference fetch",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementItem(outcome string) {
	if m != nil {
		m.ItemOutcomes.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementBatch(path string) {
	if m != nil {
		m.Batches.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) IncrementExclusion(severity string) {
	if m != nil {
		m.Exclusions.WithLabelValues(severity).Inc()
	}
}

// ObserveBatchLatency records the duration of a full matching batch.
func (m *Metrics) ObserveBatchLatency(d time.Duration) {
	if m != nil {
		m.BatchLatency.Observe(d.Seconds())
	}
}
