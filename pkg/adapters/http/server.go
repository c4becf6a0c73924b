package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds a snapshot upload.
const maxBodyBytes = 1 << 20

// Server exposes a session.Manager over JSON/HTTP.
type Server struct {
	Sessions *session.Manager
	logger   *slog.Logger
	metrics  http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h (typically promhttp.Handler()) at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.List)
		r.Post("/", server.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.Load)
			r.Head("/", server.Exists)
			r.Put("/", server.Save)
			r.Delete("/", server.Clear)
			r.Get("/summary", server.Summary)
		})
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// List handles GET /sessions.
func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ports.ErrListUnsupported) {
			status = http.StatusNotImplemented
		}
		http.Error(w, err.Error(), status)
		s.logger.Warn("List sessions failed", "err", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, map[string][]string{"ids": ids})
}

// Create handles POST /sessions: saves the body under a fresh workflow id.
func (s *Server) Create(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.decode(w, r)
	if !ok {
		return
	}
	id := s.Sessions.NewID()
	if !s.save(w, r, id, snap) {
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, map[string]string{"id": id})
}

// Save handles PUT /sessions/{id}.
func (s *Server) Save(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.decode(w, r)
	if !ok {
		return
	}
	if s.save(w, r, chi.URLParam(r, "id"), snap) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) save(w http.ResponseWriter, r *http.Request, id string, snap domain.Snapshot) bool {
	err := s.Sessions.WithLock(r.Context(), id, func(ctx context.Context, store *session.Store) error {
		return store.Save(ctx, snap)
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidSnapshot):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrStorageUnavailable):
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return false
	}
	return true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (domain.Snapshot, bool) {
	var snap domain.Snapshot
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&snap); err != nil {
		http.Error(w, "Invalid snapshot body", http.StatusBadRequest)
		s.logger.Warn("Invalid snapshot body", "err", err)
		return snap, false
	}
	return snap, true
}

// Load handles GET /sessions/{id}.
func (s *Server) Load(w http.ResponseWriter, r *http.Request) {
	var snap *domain.Snapshot
	var found bool
	_ = s.Sessions.WithLock(r.Context(), chi.URLParam(r, "id"), func(ctx context.Context, store *session.Store) error {
		snap, found = store.Load(ctx)
		return nil
	})
	if !found {
		http.Error(w, domain.ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, snap)
}

// Exists handles HEAD /sessions/{id}.
func (s *Server) Exists(w http.ResponseWriter, r *http.Request) {
	if s.Sessions.For(chi.URLParam(r, "id")).Exists(r.Context()) {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

// Summary handles GET /sessions/{id}/summary.
func (s *Server) Summary(w http.ResponseWriter, r *http.Request) {
	var summary domain.Summary
	var found bool
	_ = s.Sessions.WithLock(r.Context(), chi.URLParam(r, "id"), func(ctx context.Context, store *session.Store) error {
		summary, found = store.Summarize(ctx)
		return nil
	})
	if !found {
		http.Error(w, domain.ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, summary)
}

// Clear handles DELETE /sessions/{id}.
func (s *Server) Clear(w http.ResponseWriter, r *http.Request) {
	_ = s.Sessions.WithLock(r.Context(), chi.URLParam(r, "id"), func(ctx context.Context, store *session.Store) error {
		store.Clear(ctx)
		return nil
	})
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
