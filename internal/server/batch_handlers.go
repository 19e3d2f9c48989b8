package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"os"
	"time"

	"github.com/MeKo-Tech/chipgauge/internal/measure"
)

// maxBatchItems bounds a single batch request.
const maxBatchItems = 10

// BatchRequest represents a batch measurement request.
type BatchRequest struct {
	Images []BatchImageRequest `json:"images"`
}

// BatchImageRequest represents a single image in a batch request.
type BatchImageRequest struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// BatchResponse represents the response for batch processing.
type BatchResponse struct {
	Success bool          `json:"success"`
	Results []BatchResult `json:"results,omitempty"`
	Error   string        `json:"error,omitempty"`
	Summary BatchSummary  `json:"summary"`
}

// BatchResult represents a single result in batch processing.
type BatchResult struct {
	Name     string              `json:"name"`
	Success  bool                `json:"success"`
	Result   *measure.ResultJSON `json:"result,omitempty"`
	Error    string              `json:"error,omitempty"`
	Duration float64             `json:"duration_seconds"`
}

// BatchSummary provides summary statistics for batch processing.
type BatchSummary struct {
	TotalItems    int     `json:"total_items"`
	Successful    int     `json:"successful"`
	Failed        int     `json:"failed"`
	TotalDuration float64 `json:"total_duration_seconds"`
	AvgItemTime   float64 `json:"avg_item_time_seconds"`
}

// batchHandler processes batch measurement requests.
func (s *Server) batchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Failed to parse JSON request: %v", err), http.StatusBadRequest)
		return
	}

	if len(req.Images) == 0 {
		s.writeErrorResponse(w, "No images provided in batch request", http.StatusBadRequest)
		return
	}
	if len(req.Images) > maxBatchItems {
		s.writeErrorResponse(w,
			fmt.Sprintf("Batch size too large (maximum %d items)", maxBatchItems), http.StatusBadRequest)
		return
	}

	start := time.Now()
	results, summary := s.processBatch(req, nil)
	totalDuration := time.Since(start)

	summary.TotalDuration = totalDuration.Seconds()
	if summary.TotalItems > 0 {
		summary.AvgItemTime = summary.TotalDuration / float64(summary.TotalItems)
	}

	measureRequestsTotal.WithLabelValues("batch", "success").Inc()
	measureDuration.WithLabelValues("batch").Observe(totalDuration.Seconds())

	response := BatchResponse{
		Success: summary.Failed == 0,
		Results: results,
		Summary: summary,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding batch response: %v\n", err)
	}
}

// processBatch measures every image in the request. If progress is non-nil
// it is invoked after each item with the finished result.
func (s *Server) processBatch(req BatchRequest, progress func(done int, res BatchResult)) ([]BatchResult, BatchSummary) {
	results := make([]BatchResult, 0, len(req.Images))
	summary := BatchSummary{TotalItems: len(req.Images)}

	for i, item := range req.Images {
		itemStart := time.Now()
		result := BatchResult{Name: item.Name}

		img, _, err := image.Decode(bytes.NewReader(item.Data))
		if err != nil {
			result.Error = fmt.Sprintf("invalid image: %v", err)
		} else if res, err := s.measureFn(img, s.defaultCal, s.options); err != nil {
			result.Error = fmt.Sprintf("measurement failed: %v", err)
		} else {
			out := res.ToJSON()
			result.Success = true
			result.Result = &out
			pinsLocated.WithLabelValues("batch").Observe(float64(out.PinCount))
		}

		result.Duration = time.Since(itemStart).Seconds()
		if result.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}

		results = append(results, result)
		if progress != nil {
			progress(i+1, result)
		}
	}

	return results, summary
}
