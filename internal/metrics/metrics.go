// Package metrics exposes Prometheus collectors for simulations and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_simulations_total",
			Help: "Total number of scenario simulations",
		},
		[]string{"status"}, // ok, invalid
	)

	SimulationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_simulation_duration_seconds",
			Help:    "Time to parse and simulate one scenario",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	SimulatedMonths = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_simulated_months_total",
			Help: "Total number of simulated months",
		},
	)

	ScenariosStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "planner_scenarios_stored",
			Help: "Number of scenarios currently held in the scenario store",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordSimulation records one simulation attempt
func RecordSimulation(ok bool, months int, d time.Duration) {
	status := "ok"
	if !ok {
		status = "invalid"
	}
	SimulationsTotal.WithLabelValues(status).Inc()
	if ok {
		SimulationDuration.Observe(d.Seconds())
		SimulatedMonths.Add(float64(months))
	}
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
