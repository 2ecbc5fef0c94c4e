package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cubicleview/internal/testgraph"
	"github.com/matzehuels/cubicleview/pkg/config"
	"github.com/matzehuels/cubicleview/pkg/graph"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	r.Engine = testgraph.DepthEngine{}
	sessions := session.NewManager(time.Hour)
	t.Cleanup(sessions.Close)

	ts := httptest.NewServer(New(r, sessions, config.Default().View, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// create uploads the sample graph and returns the session URL.
func create(t *testing.T, ts *httptest.Server) (string, session.Snapshot) {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/api/sessions", testgraph.Sample)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	snap := decodeBody[session.Snapshot](t, resp)
	require.NotEmpty(t, snap.ID)
	return ts.URL + "/api/sessions/" + snap.ID, snap
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)
	url, snap := create(t, ts)

	assert.Equal(t, 8, snap.Nodes)
	require.Len(t, snap.Splits, 1)
	assert.Equal(t, "full", snap.Splits[0].Variant)
	assert.Equal(t, testgraph.SampleFullNodes, snap.Splits[0].Nodes)

	resp := do(t, http.MethodGet, url, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[session.Snapshot](t, resp)
	assert.Equal(t, snap.ID, got.ID)
}

func TestCreateSessionErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body string
		code string
	}{
		{"two roots", testgraph.TwoRoots, "INVALID_ROOT"},
		{"not dot", "digraph G { 1 -> }", "PARSE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/api/sessions", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody[errorBody](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeBody[errorBody](t, resp).Code)
}

func TestSelectAndClear(t *testing.T) {
	ts := newTestServer(t)
	url, _ := create(t, ts)

	resp := do(t, http.MethodPost, url+"/select", `{"split": 0, "node": "6"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody[session.Snapshot](t, resp)
	assert.Equal(t, "6", snap.Selection.Node)
	assert.Len(t, snap.Selection.Ancestors, 3)

	resp = do(t, http.MethodPost, url+"/select", `{"split": 0, "node": "42"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPost, url+"/select", `{"split": 3, "node": "6"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, url+"/select", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, url+"/clear", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[session.Snapshot](t, resp).Selection.Node)
}

func TestSplits(t *testing.T) {
	ts := newTestServer(t)
	url, _ := create(t, ts)

	resp := do(t, http.MethodPost, url+"/splits", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, decodeBody[map[string]int](t, resp)["split"])

	resp = do(t, http.MethodPost, url+"/splits/1/toggle/subsumed", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody[session.Snapshot](t, resp)
	require.Len(t, snap.Splits, 2)
	assert.Equal(t, "pruned", snap.Splits[1].Variant)
	assert.Equal(t, testgraph.SamplePrunedNodes, snap.Splits[1].Nodes)
	assert.Equal(t, "full", snap.Splits[0].Variant)

	resp = do(t, http.MethodPost, url+"/splits/1/toggle/bogus", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, url+"/splits/1/toggle/all", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "full", decodeBody[session.Snapshot](t, resp).Splits[1].Variant)

	resp = do(t, http.MethodDelete, url+"/splits/0", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodDelete, url+"/splits/0", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = do(t, http.MethodDelete, url+"/splits/x", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRenderSplit(t *testing.T) {
	ts := newTestServer(t)
	url, _ := create(t, ts)

	resp := do(t, http.MethodGet, url+"/splits/0/render/svg", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<svg")

	resp = do(t, http.MethodGet, url+"/splits/0/render/gif", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_FORMAT", decodeBody[errorBody](t, resp).Code)
}

func TestSplitGraph(t *testing.T) {
	ts := newTestServer(t)
	url, _ := create(t, ts)
	do(t, http.MethodPost, url+"/select", `{"split": 0, "node": "5"}`)

	resp := do(t, http.MethodGet, url+"/splits/0/graph", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	g, err := graph.Read(resp.Body, graph.FormatJSON)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, testgraph.SampleFullNodes)
	require.NotNil(t, g.Selection)
	assert.Equal(t, "5", g.Selection.Node)

	resp = do(t, http.MethodGet, url+"/splits/0/graph?format=yaml", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	g, err = graph.Read(resp.Body, graph.FormatYAML)
	require.NoError(t, err)
	assert.Len(t, g.Edges, testgraph.SampleFullEdges)

	resp = do(t, http.MethodGet, url+"/splits/0/graph?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestViewRequests(t *testing.T) {
	ts := newTestServer(t)
	url, _ := create(t, ts)

	tests := []struct {
		path, body string
		status     int
	}{
		{"/resize", `{"width": 800, "height": 600}`, http.StatusNoContent},
		{"/resize", `{"width": 0, "height": 600}`, http.StatusBadRequest},
		{"/splits/0/hover", `{"node": "3"}`, http.StatusNoContent},
		{"/splits/0/hover", `{"node": ""}`, http.StatusNoContent},
		{"/splits/0/zoom", `{"x": 10, "y": 20, "k": 2}`, http.StatusNoContent},
		{"/splits/0/zoom", `{"k": 0}`, http.StatusBadRequest},
		{"/splits/5/zoom", `{"k": 1}`, http.StatusBadRequest},
		{"/splits/0/pointer", `{"event": "down", "x": -1e6, "y": -1e6}`, http.StatusNoContent},
		{"/splits/0/pointer", `{"event": "up", "x": -1e6, "y": -1e6}`, http.StatusNoContent},
		{"/splits/0/pointer", `{"event": "wheel"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := do(t, http.MethodPost, url+tt.path, tt.body)
		assert.Equal(t, tt.status, resp.StatusCode, "%s %s", tt.path, tt.body)
	}
}

func TestReplaceAndDelete(t *testing.T) {
	ts := newTestServer(t)
	url, _ := create(t, ts)

	resp := do(t, http.MethodPut, url+"/dot", "digraph G { a [orig=true]; a -> b; }")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody[session.Snapshot](t, resp)
	assert.Equal(t, 2, snap.Nodes)

	resp = do(t, http.MethodPut, url+"/dot", testgraph.TwoRoots)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodDelete, url, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodGet, url, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEvents(t *testing.T) {
	ts := newTestServer(t)
	url, _ := create(t, ts)

	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	resp := do(t, http.MethodPost, url+"/select", `{"split": 0, "node": "2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var e session.Event
	require.NoError(t, conn.ReadJSON(&e))
	assert.Equal(t, session.EventRedraw, e.Kind)
	assert.Equal(t, 1, e.Splits)
}
