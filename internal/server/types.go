// Package server exposes the measurement engine over HTTP: multipart
// uploads, JSON responses, prometheus metrics, and batch progress over
// websocket.
package server

import (
	"image"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/chipgauge/internal/calibrate"
	"github.com/MeKo-Tech/chipgauge/internal/measure"
)

// measureFunc runs one measurement; swapped out in tests.
type measureFunc func(img image.Image, cal calibrate.Model, opts measure.Options) (*measure.Result, error)

// Server holds the HTTP server state and dependencies.
type Server struct {
	measureFn       measureFunc
	options         measure.Options
	defaultCal      calibrate.Model
	corsOrigin      string
	maxUploadMB     int64
	timeoutSec      int
	annotateEnabled bool
}

// Config holds server configuration.
type Config struct {
	Host            string
	Port            int
	CORSOrigin      string
	MaxUploadMB     int64
	TimeoutSec      int
	AnnotateEnabled bool
	Options         measure.Options
	Calibration     calibrate.Model
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// MeasureResponse wraps a single measurement result.
type MeasureResponse struct {
	Success bool                `json:"success"`
	Result  *measure.ResultJSON `json:"result,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// NewServer creates a new measurement server instance.
func NewServer(config Config) (*Server, error) {
	return &Server{
		measureFn:       measure.Measure,
		options:         config.Options,
		defaultCal:      config.Calibration,
		corsOrigin:      config.CORSOrigin,
		maxUploadMB:     config.MaxUploadMB,
		timeoutSec:      config.TimeoutSec,
		annotateEnabled: config.AnnotateEnabled,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/measure", s.corsMiddleware(s.measureHandler))
	mux.HandleFunc("/batch", s.corsMiddleware(s.batchHandler))
	mux.HandleFunc("/ws/progress", s.progressWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
