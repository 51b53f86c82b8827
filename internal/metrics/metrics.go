// Package metrics holds the Prometheus collectors for the portal.
//
// Everything is registered on a private registry instead of the global
// default one, so tests can build as many Metrics as they like without
// "duplicate metrics collector registration" panics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth event names and results used as label values.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventLogout   = "logout"

	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	AuthEvents      *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them together with the Go and
// process collectors. activeSessions feeds the portal_sessions_active gauge
// at scrape time; pass nil to leave the gauge out.
func New(activeSessions func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		AuthEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_auth_events_total",
				Help: "Authentication events by kind and result",
			},
			[]string{"event", "result"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_http_requests_total",
				Help: "HTTP requests by method, route pattern and status code",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.AuthEvents, m.RequestsTotal, m.RequestDuration)

	if activeSessions != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "portal_sessions_active",
				Help: "Number of live sessions in the registry",
			},
			func() float64 { return float64(activeSessions()) },
		))
	}

	return m
}

// Registry returns the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAuth counts one authentication event. Safe on a nil *Metrics.
func (m *Metrics) RecordAuth(event, result string) {
	if m == nil {
		return
	}
	m.AuthEvents.WithLabelValues(event, result).Inc()
}

// RecordRequest counts one served request. route is the chi route pattern
// ("/juegos/{id}"), never the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
