package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the Hampuff service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// SMS Metrics
	SMSCommandsTotal prometheus.CounterVec

	// Solar feed metrics
	SolarFetchesTotal prometheus.CounterVec

	// Registration metrics
	RegistrationsTotal prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hampuff_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hampuff_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hampuff_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		SMSCommandsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hampuff_sms_commands_total",
				Help: "Total classified SMS commands by kind",
			},
			[]string{"kind"},
		),

		SolarFetchesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hampuff_solar_fetch_errors_total",
				Help: "Total solar feed fetch failures by error code",
			},
			[]string{"code"},
		),

		RegistrationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "hampuff_registrations_total",
				Help: "Total registrations created through the admin API",
			},
		),
	}
}
