// Package http exposes a read-only inspection surface over the live
// instances of one or more binders: which invocation keys each
// instance last issued, what resolved, what is pending, what failed.
// It exists for debugging bindings, not for serving application
// traffic.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/wirekit/wire"
)

// Inspector is the read side of a binder.
type Inspector interface {
	Snapshots() []wire.InstanceSnapshot
	Snapshot(id string) (wire.InstanceSnapshot, bool)
}

// Server serves binding snapshots for a set of named binders.
type Server struct {
	binders map[string]Inspector
	logger  *slog.Logger
}

// NewHandler builds the inspection handler. The map key is the name the
// binder is published under in the URL space.
func NewHandler(binders map[string]Inspector, logger *slog.Logger) http.Handler {
	s := &Server{binders: binders, logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Get("/binders", s.listBinders)
	r.Get("/binders/{name}/instances", s.listInstances)
	r.Get("/binders/{name}/instances/{id}", s.getInstance)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) listBinders(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.binders))
	for name := range s.binders {
		names = append(names, name)
	}
	sort.Strings(names)
	s.writeJSON(w, map[string][]string{"binders": names})
}

func (s *Server) listInstances(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binders[chi.URLParam(r, "name")]
	if !ok {
		http.Error(w, "unknown binder", http.StatusNotFound)
		return
	}
	s.writeJSON(w, b.Snapshots())
}

func (s *Server) getInstance(w http.ResponseWriter, r *http.Request) {
	b, ok := s.binders[chi.URLParam(r, "name")]
	if !ok {
		http.Error(w, "unknown binder", http.StatusNotFound)
		return
	}
	snap, ok := b.Snapshot(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown instance", http.StatusNotFound)
		return
	}
	s.writeJSON(w, snap)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Warn("inspection encode failed", "err", err)
	}
}
