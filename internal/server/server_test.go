package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/render/sankey/sink"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return New(pipeline.NewRunner(fc, nil, nil), nil)
}

func budgetJSON(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(flow.SampleBudget())
	require.NoError(t, err)
	return data
}

func do(s *Server, method, target string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/healthz", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.GoVersion)
}

func TestRenderPNG(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodPost, "/v1/render?format=png&no_labels=true", budgetJSON(t), "application/json")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Graph-Hash"))
	assert.Equal(t, "miss", w.Header().Get("X-Cache"))

	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestRenderCached(t *testing.T) {
	s := newTestServer(t)
	target := "/v1/render?no_labels=true&width=400&height=400"

	first := do(s, http.MethodPost, target, budgetJSON(t), "")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := do(s, http.MethodPost, target, budgetJSON(t), "")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, "miss", first.Header().Get("X-Cache"))
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestRenderJSONFormat(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodPost, "/v1/render?format=json", budgetJSON(t), "application/json")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var doc sink.Document
	require.NoError(t, json.NewDecoder(w.Body).Decode(&doc))
	assert.Len(t, doc.Nodes, 9)
	assert.Len(t, doc.Bands, 8)
}

func TestRenderNodelinkDOT(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodPost, "/v1/render?type=nodelink&format=dot", budgetJSON(t), "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/vnd.graphviz", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "rankdir=LR")
}

func TestRenderCSVBody(t *testing.T) {
	s := newTestServer(t)
	body := "node,A,10,0,0\nnode,B,10,1,0\nedge,A,B,10\n"

	w := do(s, http.MethodPost, "/v1/render?format=bmp&no_labels=true", []byte(body), "text/csv; charset=utf-8")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/bmp", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("BM")))
}

func TestRenderErrors(t *testing.T) {
	dangling := flow.SampleBudget()
	dangling.Edges = append(dangling.Edges, flow.Edge{Source: "Budget", Target: "Savings", Value: 1})
	danglingJSON, err := json.Marshal(dangling)
	require.NoError(t, err)

	overflow := flow.SampleBudget()
	overflow.Edges[2].Value = 600
	overflowJSON, err := json.Marshal(overflow)
	require.NoError(t, err)

	tests := []struct {
		name        string
		target      string
		body        []byte
		contentType string
		status      int
		code        errors.Code
	}{
		{"malformed json", "/v1/render", []byte("{"), "application/json", http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput},
		{"empty graph", "/v1/render", []byte(`{"nodes":[],"edges":[]}`), "", http.StatusUnprocessableEntity, errors.ErrCodeEmptyInput},
		{"dangling edge", "/v1/render", danglingJSON, "", http.StatusUnprocessableEntity, errors.ErrCodeDanglingEdge},
		{"capacity overflow", "/v1/render", overflowJSON, "", http.StatusUnprocessableEntity, errors.ErrCodeCapacityOverflow},
		{"bad format", "/v1/render?format=gif", budgetJSON(t), "", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad viz type", "/v1/render?type=chord", budgetJSON(t), "", http.StatusBadRequest, errors.ErrCodeInvalidVizType},
		{"bad width", "/v1/render?width=wide", budgetJSON(t), "", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"bad color", "/v1/render?band_color=blue", budgetJSON(t), "", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"tiny canvas", "/v1/render?height=50&no_labels=true", budgetJSON(t), "", http.StatusBadRequest, errors.ErrCodeInvalidCanvas},
		{"bad content type", "/v1/render", budgetJSON(t), "image/png", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodPost, tt.target, tt.body, tt.contentType)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			resp := decodeError(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestLayout(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodPost, "/v1/layout", budgetJSON(t), "application/json")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var doc sink.Document
	require.NoError(t, json.NewDecoder(w.Body).Decode(&doc))
	assert.Equal(t, 281, doc.ColSeparation)
	require.Len(t, doc.Nodes, 9)
	assert.Equal(t, "Budget", doc.Nodes[2].Name)
	assert.Equal(t, 295, doc.Nodes[2].X1)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/v1/render", nil, "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodOptions, "/v1/render", nil, "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

type recordingHooks struct {
	observability.NoopServerHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t)
	do(s, http.MethodGet, "/healthz", nil, "")
	do(s, http.MethodPost, "/v1/render?format=gif", budgetJSON(t), "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.statuses)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New(errors.ErrCodeInternal, "boom")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(errors.New(errors.ErrCodeDuplicateNode, "dup")))
}

func TestListenAndServeShutdown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/render", strings.NewReader(""))
	w := httptest.NewRecorder()

	s.writeError(w, req, errors.New(errors.ErrCodeInternal, "disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, errors.ErrCodeInternal, resp.Code)
	assert.Equal(t, "internal error", resp.Message)
}
