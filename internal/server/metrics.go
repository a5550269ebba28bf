package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stipple_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stipple_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Code generation metrics
	generateRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stipple_generate_requests_total",
			Help: "Total number of code generation requests",
		},
		[]string{"format", "status"},
	)

	generateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stipple_generate_duration_seconds",
			Help:    "Code generation duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"format"},
	)

	generatedBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stipple_generated_png_bytes",
			Help:    "Size of generated PNG images in bytes",
			Buckets: []float64{512, 1024, 4 * 1024, 16 * 1024, 64 * 1024, 256 * 1024, 1024 * 1024},
		},
	)

	// Rate limiting metrics
	rateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stipple_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stipple_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stipple_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)

// metricsHandler exposes the Prometheus metrics endpoint.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}
