package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chipgauge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chipgauge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Measurement metrics
	measureRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chipgauge_measure_requests_total",
			Help: "Total number of measurement requests",
		},
		[]string{"type", "status"}, // type: image, batch, websocket
	)

	measureDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chipgauge_measure_duration_seconds",
			Help:    "Measurement processing duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"type"},
	)

	measureStrategyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chipgauge_measure_strategy_total",
			Help: "Detection strategy that produced each measurement",
		},
		[]string{"strategy"},
	)

	pinsLocated = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chipgauge_pins_located",
			Help:    "Number of pins located per measurement",
			Buckets: []float64{0, 2, 4, 8, 16, 32, 64, 128},
		},
		[]string{"type"},
	)

	// File upload metrics
	uploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chipgauge_upload_size_bytes",
			Help:    "Size of uploaded files in bytes",
			Buckets: []float64{1024, 10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024, 50 * 1024 * 1024},
		},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chipgauge_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chipgauge_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)
