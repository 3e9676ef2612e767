package config

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	// Registry backs the /metrics endpoint.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	orderWrites     *prometheus.CounterVec
	recomputations  prometheus.Counter
	notifications   *prometheus.CounterVec
}

// NewMetrics registers every collector in a private registry, so tests can
// build as many instances as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salonbiz_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		orderWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salonbiz_order_writes_total",
				Help: "Order aggregate mutations by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		recomputations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "salonbiz_order_total_recomputations_total",
				Help: "Times an order total was re-derived from its lines.",
			},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salonbiz_notifications_total",
				Help: "Customer notifications by kind and status.",
			},
			[]string{"kind", "status"},
		),
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// IncrOrderWrite counts an order mutation.
func (m *Metrics) IncrOrderWrite(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.orderWrites.WithLabelValues(operation, outcome).Inc()
}

// IncrRecompute counts a total recomputation.
func (m *Metrics) IncrRecompute() {
	if m == nil {
		return
	}
	m.recomputations.Inc()
}

// IncrNotification counts a notification attempt.
func (m *Metrics) IncrNotification(kind, status string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, status).Inc()
}
