package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialProgress(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/progress"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestProgressWebSocketStreamsBatch(t *testing.T) {
	s := newTestServer(t)
	stubMeasure(s)
	conn := dialProgress(t, s)

	req := BatchRequest{Images: []BatchImageRequest{
		{Name: "a.png", Data: tinyPNG(t)},
		{Name: "b.png", Data: tinyPNG(t)},
	}}
	require.NoError(t, conn.WriteJSON(req))

	var statuses []string
	var last ProgressResponse
	for {
		var resp ProgressResponse
		require.NoError(t, conn.ReadJSON(&resp))
		statuses = append(statuses, resp.Status)
		last = resp
		if resp.Status == "completed" || resp.Status == "error" {
			break
		}
	}

	require.Equal(t, []string{"processing", "item", "item", "completed"}, statuses)
	require.NotNil(t, last.Summary)
	require.Equal(t, 2, last.Summary.TotalItems)
	require.Equal(t, 2, last.Summary.Successful)
	require.InDelta(t, 1.0, last.Progress, 1e-9)
}

func TestProgressWebSocketInvalidRequest(t *testing.T) {
	s := newTestServer(t)
	conn := dialProgress(t, s)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))

	var resp ProgressResponse
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "error", resp.Status)
	require.Equal(t, "invalid_request", resp.ErrorType)
}

func TestProgressWebSocketEmptyBatch(t *testing.T) {
	s := newTestServer(t)
	conn := dialProgress(t, s)

	require.NoError(t, conn.WriteJSON(BatchRequest{}))

	var resp ProgressResponse
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "error", resp.Status)
}
