package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSolveMetrics() {
	r.SolvesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowplan_solves_total",
			Help: "Total number of completed solves by domain status",
		},
		[]string{"status"},
	)

	r.SolveDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowplan_solve_duration_seconds",
			Help:    "End-to-end solve latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	r.ValidationFailures = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowplan_validation_failures_total",
			Help: "Rejected requests by failure category",
		},
		[]string{"category"},
	)

	r.ModelVariablesTotal = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowplan_model_variables",
			Help:    "Number of LP variables per compiled model",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	r.ModelConstraintsTotal = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowplan_model_constraints",
			Help:    "Number of LP constraints per compiled model",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	r.TightConstraintsPerOpt = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowplan_tight_constraints",
			Help:    "Number of binding constraints per optimal solve",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)
}
