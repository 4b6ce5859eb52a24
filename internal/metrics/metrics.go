// Package metrics owns the prometheus registry for the web frontend: calls
// made to the backend and requests served to browsers.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aviorie_web"

type Metrics struct {
	registry *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	backendInFlight prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	authOutcomes *prometheus.CounterVec
}

// New creates the instruments on a private registry so tests can build as
// many instances as they like.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Requests sent to the Aviorie backend API.",
		},
		[]string{"code", "method"},
	)
	m.backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests sent to the Aviorie backend API.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"code", "method"},
	)
	m.backendInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "in_flight_requests",
			Help:      "Backend requests currently outstanding.",
		},
	)
	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests served to browsers.",
		},
		[]string{"code", "method"},
	)
	m.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests served to browsers.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"code", "method"},
	)
	m.authOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "transitions_total",
			Help:      "Auth flow submissions by operation and resulting state.",
		},
		[]string{"operation", "state"},
	)

	m.registry.MustRegister(
		m.backendRequests,
		m.backendDuration,
		m.backendInFlight,
		m.httpRequests,
		m.httpDuration,
		m.authOutcomes,
	)
	return m
}

// RoundTripper wraps next with the backend instruments.
func (m *Metrics) RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(m.backendInFlight,
		promhttp.InstrumentRoundTripperCounter(m.backendRequests,
			promhttp.InstrumentRoundTripperDuration(m.backendDuration, next),
		),
	)
}

// Middleware wraps next with the inbound request instruments.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.httpRequests,
		promhttp.InstrumentHandlerDuration(m.httpDuration, next),
	)
}

// AuthTransition counts one auth flow outcome.
func (m *Metrics) AuthTransition(operation, state string) {
	m.authOutcomes.WithLabelValues(operation, state).Inc()
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
