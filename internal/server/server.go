// Package server provides an HTTP server exposing gear train searches and the
// exported catalog store over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/model"
	"github.com/scbrown/gearcalc/internal/ratio"
	"github.com/scbrown/gearcalc/internal/search"
	"github.com/scbrown/gearcalc/internal/store"
)

// Server wraps a search engine and a store.Store and exposes them over HTTP.
type Server struct {
	store    store.Store
	engine   *search.Engine
	catalog  gear.Catalog
	maxGears int
	log      *slog.Logger
	mux      *http.ServeMux
	srv      *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog sets the gear catalog used for live searches.
func WithCatalog(c gear.Catalog) Option {
	return func(s *Server) { s.catalog = c }
}

// WithMaxGears caps the train length a live search may request.
func WithMaxGears(n int) Option {
	return func(s *Server) { s.maxGears = n }
}

// WithLogger sets the request and search logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Server that serves lookups from st.
func New(st store.Store, opts ...Option) *Server {
	srv := &Server{
		store:    st,
		catalog:  gear.DefaultCatalog,
		maxGears: search.DefaultMaxGears,
		log:      slog.New(slog.DiscardHandler),
		mux:      http.NewServeMux(),
	}
	for _, o := range opts {
		o(srv)
	}
	srv.engine = search.New(search.WithLogger(srv.log))
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/gears", s.handleGears)
	s.mux.HandleFunc("GET /api/v1/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/v1/ratios", s.handleListRatios)
	s.mux.HandleFunc("GET /api/v1/ratios/{ratio}", s.handleLookup)
	s.mux.HandleFunc("GET /api/v1/runs", s.handleListRuns)
}

// Serve accepts connections on the given listener.
func (s *Server) Serve(ln net.Listener) error {
	s.srv = &http.Server{
		Handler:      s.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}
	return s.srv.Serve(ln)
}

// Handler returns the HTTP handler for use with httptest.Server or custom listeners.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGears(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"gears":     s.catalog.Strings(),
		"pairs":     len(gear.Pairs(s.catalog)),
		"max_gears": s.maxGears,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, input, err := parseSearchRequest(r, s.catalog, s.maxGears)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "%v", err)
		return
	}
	start := time.Now()
	res, err := s.engine.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		writeErr(w, http.StatusBadRequest, "search: %v", err)
		return
	}
	s.log.Info("search", "input", input, "kind", res.Kind.String(), "gears", res.Gears, "elapsed", time.Since(start))
	writeJSON(w, http.StatusOK, model.NewSolution(input, res))
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	rt, err := ratio.Parse(r.PathValue("ratio"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "%v", err)
		return
	}
	entry, err := s.store.Lookup(r.Context(), rt)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "lookup: %v", err)
		return
	}
	if entry == nil {
		writeErr(w, http.StatusNotFound, "ratio %s not found", rt)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleListRatios(w http.ResponseWriter, r *http.Request) {
	opts, err := parseRatioOpts(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "%v", err)
		return
	}
	ratios, err := s.store.ListRatios(r.Context(), opts)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "listing ratios: %v", err)
		return
	}
	if ratios == nil {
		ratios = []model.RatioCount{}
	}
	writeJSON(w, http.StatusOK, ratios)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "listing runs: %v", err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// writeJSON writes v as indented JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// writeErr writes a JSON error response.
func writeErr(w http.ResponseWriter, status int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	writeJSON(w, status, map[string]string{"error": msg})
}
