// Package metrics holds the prometheus registry for the planning service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application.
type Registry struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Solve metrics
	SolvesTotal            *prometheus.CounterVec
	SolveDuration          *prometheus.HistogramVec
	ValidationFailures     *prometheus.CounterVec
	ModelVariablesTotal    prometheus.Histogram
	ModelConstraintsTotal  prometheus.Histogram
	TightConstraintsPerOpt prometheus.Histogram
}

// NewRegistry creates a registry with all collectors registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(collectors.NewGoCollector())
	r.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.initHTTPMetrics()
	r.initSolveMetrics()
	return r
}

// Handler returns the HTTP handler exposing the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordHTTPRequest records an HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordSolve records one completed solve: domain status, wall time, and
// the compiled model size.
func (r *Registry) RecordSolve(status string, duration time.Duration, variables, constraints, tight int) {
	r.SolvesTotal.WithLabelValues(status).Inc()
	r.SolveDuration.WithLabelValues(status).Observe(duration.Seconds())
	r.ModelVariablesTotal.Observe(float64(variables))
	r.ModelConstraintsTotal.Observe(float64(constraints))
	if status == "optimal" {
		r.TightConstraintsPerOpt.Observe(float64(tight))
	}
}

// RecordValidationFailure records a rejected request by failure category
// ("schema" or "domain").
func (r *Registry) RecordValidationFailure(category string) {
	r.ValidationFailures.WithLabelValues(category).Inc()
}
