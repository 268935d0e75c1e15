// Package admin serves the operator HTTP surface: liveness, Prometheus metrics,
// active session counts and read-only room snapshots.
package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wanderer/internal/game/engine"
	"github.com/cory-johannsen/wanderer/internal/game/world"
)

// SessionCounter reports how many travelers are connected.
type SessionCounter interface {
	Count() int
}

// Deps are the collaborators the router reads from.
type Deps struct {
	// World is the world whose rooms are exposed. With private worlds this is the
	// freshly loaded template, not any traveler's copy.
	World    *world.World
	Sessions SessionCounter
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// RoomsResponse is the body of /rooms.
type RoomsResponse struct {
	Start world.RoomKey   `json:"start"`
	Rooms []world.RoomKey `json:"rooms"`
}

// SessionsResponse is the body of /sessions.
type SessionsResponse struct {
	Active int `json:"active"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the admin routes.
//
// Precondition: every field of d must be non-nil.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/sessions", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, SessionsResponse{Active: d.Sessions.Count()})
	})

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, RoomsResponse{Start: d.World.Start(), Rooms: d.World.Keys()})
		})
		r.Get("/{key}", handleRoom(d.World))
	})
	return r
}

func handleRoom(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		key, err := url.PathUnescape(chi.URLParam(r, "key"))
		if err != nil {
			respondJSON(rw, http.StatusBadRequest, ErrorResponse{Error: "malformed room key"})
			return
		}
		snap, err := engine.SnapshotRoom(w, world.RoomKey(key))
		switch {
		case errors.Is(err, world.ErrUnknownRoom):
			respondJSON(rw, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case err != nil:
			respondJSON(rw, http.StatusInternalServerError, ErrorResponse{Error: "snapshot failed"})
		default:
			respondJSON(rw, http.StatusOK, snap)
		}
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// requestLogger logs each request at debug, skipping health and metrics scrapes.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/healthz") || strings.HasPrefix(r.URL.Path, "/metrics") {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("admin request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}
