package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts evaluation cycle outcomes.
type Metrics struct {
	cycles          *prometheus.CounterVec
	catalogFailures prometheus.Counter
	cycleDuration   prometheus.Histogram
}

// Cycle outcome labels.
const (
	outcomeCompleted = "completed"
	outcomeSkipped   = "skipped"
	outcomeBlocked   = "blocked"
	outcomeStale     = "stale"
)

// NewMetrics creates and registers engine metrics on the given registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "gersemi"
	}

	m := &Metrics{
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluation_cycles_total",
				Help:      "Evaluation cycles by outcome",
			},
			[]string{"outcome"},
		),
		catalogFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_fetch_failures_total",
				Help:      "Catalog fetches that failed and fell open to an empty catalog",
			},
		),
		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_cycle_duration_seconds",
				Help:      "Duration of completed evaluation cycles",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
	}

	reg.MustRegister(m.cycles, m.catalogFailures, m.cycleDuration)
	return m
}
