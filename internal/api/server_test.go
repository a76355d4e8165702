package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atharv3903/itsroute/internal/cache"
	"github.com/atharv3903/itsroute/internal/graph"
	"github.com/atharv3903/itsroute/internal/model"
	"github.com/atharv3903/itsroute/internal/render"
	"github.com/atharv3903/itsroute/internal/session"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(graph.Canonical(), session.NewStore(), log, opts)
}

// do sends a request carrying the given cookies and returns the recorder.
func do(s *Server, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie issued", sessionCookie)
	return nil
}

func decodeRoute(t *testing.T, rec *httptest.ResponseRecorder) model.RouteResponse {
	t.Helper()
	var resp model.RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestNodes(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(s, http.MethodGet, "/api/nodes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.NodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Nodes, 6)
	assert.Equal(t, "A", resp.DefaultStart)
	assert.Equal(t, "D", resp.DefaultEnd)
}

func TestFindRoute(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(s, http.MethodPost, "/api/route", `{"start":"A","end":"D"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeRoute(t, rec)

	assert.Equal(t, string(session.OutcomeFound), resp.Outcome)
	require.NotNil(t, resp.Route)
	assert.Equal(t, []string{"A", "B", "D"}, resp.Route.Path)
	assert.InDelta(t, 1.8, resp.Route.Distance, 1e-9)
	assert.Equal(t, "Shortest path from A to D: A → B → D (total ≈ 1.80 km)", resp.Summary)
	assert.False(t, resp.CacheHit)
	assert.Positive(t, resp.ExploredNodes)

	cookie := sessionCookieFrom(t, rec)
	rec = do(s, http.MethodPost, "/api/route", `{"start":"A","end":"D"}`, cookie)
	cached := decodeRoute(t, rec)
	assert.True(t, cached.CacheHit)
	assert.Zero(t, cached.ExploredNodes)

	var raw struct {
		Route map[string]any `json:"route"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw.Route, "explored_nodes", "explored count is reported once, at the top level")
	assert.Equal(t, 1, s.GCtx.Routes.Stats().Hits)
}

func TestCurrentRouteFollowsSession(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(s, http.MethodPost, "/api/route", `{"start":"A","end":"F"}`)
	cookie := sessionCookieFrom(t, rec)

	rec = do(s, http.MethodGet, "/api/route", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeRoute(t, rec)
	require.NotNil(t, resp.Route)
	assert.Equal(t, []string{"A", "C", "F"}, resp.Route.Path)

	// Another client sees nothing.
	rec = do(s, http.MethodGet, "/api/route", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(s, http.MethodDelete, "/api/route", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(s, http.MethodGet, "/api/route", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSameNodeClearsPreviousRoute(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(s, http.MethodPost, "/api/route", `{"start":"A","end":"D"}`)
	cookie := sessionCookieFrom(t, rec)

	rec = do(s, http.MethodPost, "/api/route", `{"start":"B","end":"B"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeRoute(t, rec)
	assert.Equal(t, string(session.OutcomeSameNode), resp.Outcome)
	assert.NotEmpty(t, resp.Message)
	assert.Nil(t, resp.Route)

	rec = do(s, http.MethodGet, "/api/route", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNoPathOutcome(t *testing.T) {
	g, err := graph.Build(
		[]model.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]model.Edge{{U: "A", V: "B", Distance: 1}},
	)
	require.NoError(t, err)
	s := New(g, session.NewStore(), slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})

	rec := do(s, http.MethodPost, "/api/route", `{"start":"A","end":"C"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(session.OutcomeNoPath), decodeRoute(t, rec).Outcome)
}

func TestFindRouteBadInput(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(s, http.MethodPost, "/api/route", `{"start":"A","end":"Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, http.MethodPost, "/api/route", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphView(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := do(s, http.MethodPost, "/api/route", `{"start":"A","end":"D"}`)
	cookie := sessionCookieFrom(t, rec)

	rec = do(s, http.MethodGet, "/api/graph", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var view model.MapView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.Edges, 8)
	assert.Len(t, view.Path, 3)
	for _, m := range view.Markers {
		if m.ID == "B" {
			assert.Equal(t, render.ColorOnPath, m.Color)
		}
	}
}

func TestOSMExport(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(s, http.MethodGet, "/api/graph.osm", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, 6, bytes.Count(rec.Body.Bytes(), []byte("<node ")))
}

func TestDebugEndpoints(t *testing.T) {
	s := newTestServer(t, Options{})
	do(s, http.MethodPost, "/api/route", `{"start":"A","end":"D"}`)

	rec := do(s, http.MethodGet, "/debug/routecache_stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Puts)

	rec = do(s, http.MethodPost, "/debug/clear_cache", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cache.Stats{}, s.GCtx.Routes.Stats())
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := do(s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/route")
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Options{AllowedOrigins: []string{"http://map.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/route", nil)
	req.Header.Set("Origin", "http://map.example")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://map.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/route", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
