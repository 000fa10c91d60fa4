// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heatmap_geocode_requests_total",
		Help: "Geocoding lookups by outcome (resolved or the unresolved reason)",
	}, []string{"outcome"})
	GeocodeDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "heatmap_geocode_duration_seconds",
		Help:    "Round-trip time of geocoding HTTP requests",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	PipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heatmap_pipeline_runs_total",
		Help: "Pipeline runs by mode and result",
	}, []string{"mode", "result"})
	PointsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heatmap_points_total",
		Help: "Resolved points emitted across all runs",
	})
)

func init() {
	prometheus.MustRegister(GeocodeRequestsTotal, GeocodeDurationSeconds, PipelineRunsTotal, PointsTotal)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
