package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestBatchHandler(t *testing.T) {
	s := newTestServer(t)
	stubMeasure(s)

	req := BatchRequest{Images: []BatchImageRequest{
		{Name: "a.png", Data: tinyPNG(t)},
		{Name: "broken.png", Data: []byte("nope")},
	}}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/batch", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.batchHandler(rec, httpReq)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.False(t, resp.Success) // one item failed
	require.Len(t, resp.Results, 2)
	require.True(t, resp.Results[0].Success)
	require.NotNil(t, resp.Results[0].Result)
	require.False(t, resp.Results[1].Success)
	require.Contains(t, resp.Results[1].Error, "invalid image")
	require.Equal(t, 2, resp.Summary.TotalItems)
	require.Equal(t, 1, resp.Summary.Successful)
	require.Equal(t, 1, resp.Summary.Failed)
}

func TestBatchHandlerEmpty(t *testing.T) {
	s := newTestServer(t)
	httpReq := httptest.NewRequest(http.MethodPost, "/batch", bytes.NewReader([]byte(`{"images":[]}`)))
	rec := httptest.NewRecorder()
	s.batchHandler(rec, httpReq)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchHandlerTooLarge(t *testing.T) {
	s := newTestServer(t)
	req := BatchRequest{}
	for i := 0; i <= maxBatchItems; i++ {
		req.Images = append(req.Images, BatchImageRequest{Name: "x.png", Data: []byte{1}})
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/batch", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.batchHandler(rec, httpReq)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchHandlerBadJSON(t *testing.T) {
	s := newTestServer(t)
	httpReq := httptest.NewRequest(http.MethodPost, "/batch", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	s.batchHandler(rec, httpReq)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
