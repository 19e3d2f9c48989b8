package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// ProgressResponse streams batch progress over a WebSocket connection.
type ProgressResponse struct {
	Type      string        `json:"type"`
	Status    string        `json:"status"` // "processing", "item", "completed", "error"
	Progress  float64       `json:"progress,omitempty"`
	Item      *BatchResult  `json:"item,omitempty"`
	Summary   *BatchSummary `json:"summary,omitempty"`
	Error     string        `json:"error,omitempty"`
	ErrorType string        `json:"error_type,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// progressWebSocketHandler handles WebSocket connections that stream
// per-item progress while a batch request is measured.
func (s *Server) progressWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)
	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Read deadline prevents hanging connections.
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Periodic pings keep the connection alive.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage runs one batch request and streams its progress.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req BatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}
	if len(req.Images) == 0 {
		s.sendWebSocketError(conn, "invalid_request", "No images provided")
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	s.sendWebSocketResponse(conn, ProgressResponse{
		Type:      "batch_progress",
		Status:    "processing",
		Progress:  0.0,
		RequestID: requestID,
	})

	start := time.Now()
	total := len(req.Images)
	_, summary := s.processBatch(req, func(done int, res BatchResult) {
		item := res
		s.sendWebSocketResponse(conn, ProgressResponse{
			Type:      "batch_progress",
			Status:    "item",
			Progress:  float64(done) / float64(total),
			Item:      &item,
			RequestID: requestID,
		})
	})
	duration := time.Since(start)

	summary.TotalDuration = duration.Seconds()
	if summary.TotalItems > 0 {
		summary.AvgItemTime = summary.TotalDuration / float64(summary.TotalItems)
	}

	measureRequestsTotal.WithLabelValues("websocket", "success").Inc()
	measureDuration.WithLabelValues("websocket").Observe(duration.Seconds())

	s.sendWebSocketResponse(conn, ProgressResponse{
		Type:      "batch_progress",
		Status:    "completed",
		Progress:  1.0,
		Summary:   &summary,
		RequestID: requestID,
	})
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response ProgressResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message string) {
	s.sendWebSocketResponse(conn, ProgressResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	})
}
