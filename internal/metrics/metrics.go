// Package metrics exposes Prometheus collectors for generation runs and the
// HTTP surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered on one registry.
type Metrics struct {
	Generations        *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	Artifacts          *prometheus.CounterVec
	ArtifactBytes      prometheus.Counter
	CacheLookups       *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admingen_generations_total",
				Help: "Total number of generation runs",
			},
			[]string{"status"}, // status: success|error
		),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "admingen_generation_duration_seconds",
			Help:    "Generation run duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		Artifacts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admingen_artifacts_total",
				Help: "Total number of artifacts assembled",
			},
			[]string{"kind"},
		),
		ArtifactBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admingen_artifact_bytes_total",
			Help: "Total bytes of assembled artifacts",
		}),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admingen_cache_lookups_total",
				Help: "Artifact cache lookups",
			},
			[]string{"result"}, // result: hit|miss|error
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admingen_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "admingen_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		gatherer: reg,
	}
	reg.MustRegister(
		m.Generations,
		m.GenerationDuration,
		m.Artifacts,
		m.ArtifactBytes,
		m.CacheLookups,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordGeneration counts one finished run.
func (m *Metrics) RecordGeneration(kinds []string, bytes int64, d time.Duration, err error) {
	if err != nil {
		m.Generations.WithLabelValues("error").Inc()
		return
	}
	m.Generations.WithLabelValues("success").Inc()
	m.GenerationDuration.Observe(d.Seconds())
	for _, k := range kinds {
		m.Artifacts.WithLabelValues(k).Inc()
	}
	m.ArtifactBytes.Add(float64(bytes))
}

// RecordHTTP counts one served request.
func (m *Metrics) RecordHTTP(method, route, status string, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
