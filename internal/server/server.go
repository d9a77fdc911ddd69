// Package server exposes the recalculation engine over HTTP.
//
// The API is intentionally small: a health probe, the last computed result,
// and a recalculation trigger. The server owns no project state; a
// SnapshotFunc provided by the caller assembles a fresh engine.Snapshot for
// every recalculation so edits on disk are picked up without restarts.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ifuentes/raceway/pkg/engine"
)

// SnapshotFunc assembles the inputs for one recalculation pass.
type SnapshotFunc func() (engine.Snapshot, error)

// Server wires the engine into an HTTP API.
type Server struct {
	engine   *engine.Engine
	snapshot SnapshotFunc
	logger   *log.Logger

	mu   sync.RWMutex
	last *engine.Result
}

// New creates a server around the engine.
func New(e *engine.Engine, snapshot SnapshotFunc, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{engine: e, snapshot: snapshot, logger: logger}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/results", s.handleResults)
		r.Post("/recalc", s.handleRecalc)
	})
	return r
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleResults returns the last computed result, or 404 before the first
// recalculation.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		writeError(w, http.StatusNotFound, "no result computed yet")
		return
	}
	writeJSON(w, http.StatusOK, last)
}

// recalcRequest is the POST /recalc body. An empty body is valid.
type recalcRequest struct {
	Refresh bool `json:"refresh,omitempty"`
}

// recalcResponse wraps the result with cache metadata.
type recalcResponse struct {
	Result   *engine.Result `json:"result"`
	CacheHit bool           `json:"cache_hit"`
}

// handleRecalc runs a recalculation pass and stores the result.
func (s *Server) handleRecalc(w http.ResponseWriter, r *http.Request) {
	var req recalcRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	snap, err := s.snapshot()
	if err != nil {
		s.logger.Error("snapshot failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := s.engine.Recalculate(r.Context(), snap, engine.Options{Refresh: req.Refresh})
	if err != nil {
		s.logger.Error("recalculation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, recalcResponse{Result: result, CacheHit: result.CacheInfo.Hit})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
