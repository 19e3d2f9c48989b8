package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/MeKo-Tech/chipgauge/internal/calibrate"
	"github.com/MeKo-Tech/chipgauge/internal/version"
)

const formatText = "text"

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// measureHandler processes single-image measurement requests.
func (s *Server) measureHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}
	uploadSizeBytes.Observe(float64(len(imageData)))

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	cal, err := s.calibrationFromForm(r)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := s.measureFn(img, cal, s.options)
	duration := time.Since(start)
	if err != nil {
		measureRequestsTotal.WithLabelValues("image", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Measurement failed: %v", err), http.StatusUnprocessableEntity)
		return
	}

	measureRequestsTotal.WithLabelValues("image", "success").Inc()
	measureDuration.WithLabelValues("image").Observe(duration.Seconds())
	measureStrategyTotal.WithLabelValues(res.Strategy).Inc()
	pinsLocated.WithLabelValues("image").Observe(float64(len(res.Pins)))

	// Determine output format: default json; allow 'format' in query or form
	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}

	if format == formatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "width: %.3f mm\nheight: %.3f mm\nangle: %.1f deg\npins: %d\nconfidence: %s\n",
			res.WidthMM, res.HeightMM, res.Angle, len(res.Pins), res.Confidence)
		return
	}

	// annotated image output
	if format == "annotated" || r.FormValue("annotated") == "1" {
		s.handleAnnotatedOutput(w, res.Visualization)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	out := res.ToJSON()
	response := MeasureResponse{Success: true, Result: &out}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding measure response: %v\n", err)
	}
}

// handleAnnotatedOutput writes the annotated PNG for a measurement.
func (s *Server) handleAnnotatedOutput(w http.ResponseWriter, annotated *image.RGBA) {
	if !s.annotateEnabled {
		http.Error(w, "annotated output disabled", http.StatusForbidden)
		return
	}
	if annotated == nil {
		http.Error(w, "no annotated image available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_ = png.Encode(w, annotated)
}

// calibrationFromForm builds the calibration for one request. Form fields
// override the server default; mm_per_pixel wins over camera parameters.
func (s *Server) calibrationFromForm(r *http.Request) (calibrate.Model, error) {
	if v := r.FormValue("mm_per_pixel"); v != "" {
		mmPerPx, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return calibrate.Model{}, fmt.Errorf("invalid mm_per_pixel: %q", v)
		}
		return calibrate.Explicit(mmPerPx), nil
	}

	focal := r.FormValue("focal_length_mm")
	sensor := r.FormValue("sensor_height_mm")
	height := r.FormValue("camera_height_mm")
	if focal == "" && sensor == "" && height == "" {
		return s.defaultCal, nil
	}

	var cam calibrate.Camera
	var err error
	if cam.FocalLengthMM, err = strconv.ParseFloat(focal, 64); err != nil {
		return calibrate.Model{}, fmt.Errorf("invalid focal_length_mm: %q", focal)
	}
	if cam.SensorHeightMM, err = strconv.ParseFloat(sensor, 64); err != nil {
		return calibrate.Model{}, fmt.Errorf("invalid sensor_height_mm: %q", sensor)
	}
	if cam.CameraHeightMM, err = strconv.ParseFloat(height, 64); err != nil {
		return calibrate.Model{}, fmt.Errorf("invalid camera_height_mm: %q", height)
	}
	return calibrate.FromCamera(cam), nil
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := MeasureResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
