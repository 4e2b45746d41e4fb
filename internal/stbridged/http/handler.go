// Package http exposes the tracked boxes over a JSON API and a
// websocket event stream.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/settopbox/stbridge/internal/stbridged/box"
	"github.com/settopbox/stbridge/internal/stbridged/ratelimit"
)

// Handler encapsulates the HTTP API for box state and control
type Handler struct {
	service   box.Service
	hub       *Hub
	ratelimit ratelimit.Service
	logger    *slog.Logger
}

// NewHandler creates a new HTTP handler for box endpoints. The rate
// limit service may be nil, in which case no limits are enforced.
func NewHandler(service box.Service, hub *Hub, rl ratelimit.Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		hub:       hub,
		ratelimit: rl,
		logger:    logger,
	}
}

// Router creates and configures the HTTP router for box endpoints
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	// Basic middleware for all routes
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestIDHeaderMiddleware)
	r.Use(recoverMiddleware(h.logger))
	r.Use(logMiddleware(h.logger))

	// Public health check endpoints
	r.Group(func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	// API Routes
	r.Route("/api/v1alpha1/boxes", func(r chi.Router) {
		// Read endpoints
		r.Group(func(r chi.Router) {
			if h.ratelimit != nil {
				r.Use(ratelimit.Middleware(h.ratelimit, "api_request", h.logger))
			}

			r.Get("/", h.ListBoxes)
			r.Get("/{boxID}", h.GetBox)
		})

		// Control endpoints, limited separately since each one
		// publishes to the broker
		r.Group(func(r chi.Router) {
			if h.ratelimit != nil {
				r.Use(ratelimit.Middleware(h.ratelimit, "box_control", h.logger))
			}

			r.Post("/{boxID}/keys", h.SendKey)
			r.Post("/{boxID}/channel", h.SetChannel)
			r.Post("/{boxID}/power", h.PowerOff)
		})

		// Event stream
		r.Get("/events", h.ServeWs)

		// 404 Handler
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
		})
	})

	return r
}
