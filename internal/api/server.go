package api

import (
	"embed"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/atharv3903/itsroute/internal/algo"
	"github.com/atharv3903/itsroute/internal/cache"
	"github.com/atharv3903/itsroute/internal/graph"
	"github.com/atharv3903/itsroute/internal/model"
	"github.com/atharv3903/itsroute/internal/render"
	"github.com/atharv3903/itsroute/internal/session"
)

const sessionCookie = "itsroute_session"

//go:embed static
var staticFiles embed.FS

type Server struct {
	Mux      *mux.Router
	Graph    *graph.Graph
	GCtx     algo.GraphCtx
	Sessions *session.Store
	Log      *slog.Logger

	handler http.Handler
}

type Options struct {
	RouteCacheSize int
	AllowedOrigins []string
}

func New(g *graph.Graph, sessions *session.Store, log *slog.Logger, opts Options) *Server {
	s := &Server{
		Mux:      mux.NewRouter(),
		Graph:    g,
		Sessions: sessions,
		Log:      log,
	}

	s.GCtx = algo.GraphCtx{
		Graph:  g,
		Routes: cache.NewRouteCacheWithCap(opts.RouteCacheSize),
	}

	s.routes()

	// CORS wraps the router so pre-flight requests never reach route matching.
	s.handler = loggingMiddleware(log)(s.Mux)
	if len(opts.AllowedOrigins) > 0 {
		s.handler = corsMiddleware(opts.AllowedOrigins)(s.handler)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := s.Mux.PathPrefix("/api").Subrouter()
	api.HandleFunc("/nodes", s.handleNodes).Methods(http.MethodGet)
	api.HandleFunc("/graph", s.handleGraph).Methods(http.MethodGet)
	api.HandleFunc("/graph.osm", s.handleOSM).Methods(http.MethodGet)
	api.HandleFunc("/route", s.handleFind).Methods(http.MethodPost)
	api.HandleFunc("/route", s.handleCurrent).Methods(http.MethodGet)
	api.HandleFunc("/route", s.handleClear).Methods(http.MethodDelete)

	s.Mux.HandleFunc("/debug/clear_cache", func(w http.ResponseWriter, r *http.Request) {
		s.GCtx.Routes.Clear()
		w.Write([]byte("cleared"))
	}).Methods(http.MethodPost)

	s.Mux.HandleFunc("/debug/routecache_stats", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.GCtx.Routes.Stats())
	}).Methods(http.MethodGet)

	static, _ := fs.Sub(staticFiles, "static")
	s.Mux.PathPrefix("/").Handler(http.FileServer(http.FS(static))).Methods(http.MethodGet)
}

func (s *Server) handleNodes(w http.ResponseWriter, _ *http.Request) {
	nodes := s.Graph.Nodes()
	resp := model.NodesResponse{Nodes: nodes}
	// Preselect the first node as origin and the fourth as destination.
	if len(nodes) > 0 {
		resp.DefaultStart = nodes[0].ID
		resp.DefaultEnd = nodes[min(3, len(nodes)-1)].ID
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	st := s.session(w, r)
	respondJSON(w, http.StatusOK, render.Map(s.Graph, st.Snapshot()))
}

func (s *Server) handleOSM(w http.ResponseWriter, r *http.Request) {
	st := s.session(w, r)
	doc := render.OSM(s.Graph, st.Snapshot())

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(doc); err != nil {
		s.Log.Error("encode osm export", "error", err)
	}
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	var req model.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	st := s.session(w, r)
	out, err := session.Find(s.GCtx, st, req.Start, req.End)
	if err != nil {
		if errors.Is(err, graph.ErrUnknownNode) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.Log.Error("route lookup failed", "start", req.Start, "end", req.End, "error", err)
		respondError(w, http.StatusInternalServerError, "route lookup failed")
		return
	}

	resp := model.RouteResponse{
		Outcome: string(out.Kind),
		Message: out.Message,
	}
	if out.Kind == session.OutcomeFound {
		route := out.Route
		resp.Route = &route
		resp.Summary = render.Summary(st.Snapshot())
		resp.ExploredNodes = route.Explored
		resp.CacheHit = out.CacheHit
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	res := s.session(w, r).Snapshot()
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, model.RouteResponse{
		Outcome: string(session.OutcomeFound),
		Summary: render.Summary(res),
		Route: &model.Route{
			Start:    res.Start,
			End:      res.End,
			Path:     res.Path,
			Distance: res.Distance,
		},
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session(w, r).Clear()
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the caller's state from the cookie, issuing a new cookie
// when it is missing, malformed or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.State {
	var id uuid.UUID
	if c, err := r.Cookie(sessionCookie); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed
		}
	}

	got, st := s.Sessions.GetOrCreate(id)
	if got != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    got.String(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return st
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
