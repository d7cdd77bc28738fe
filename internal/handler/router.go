package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the router settings outside the handlers themselves.
type RouterConfig struct {
	// WebDir is served at the root when set.
	WebDir        string
	AllowedOrigin string
	// Gatherer backs GET /metrics when set.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the HTTP routes.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(h.logger))        // structured access log
	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	r.Use(CORS(origin))

	r.Get("/health", HealthCheck)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/gate", h.GateStatus)
		r.Get("/gate/events", h.GateEvents)
		r.Get("/participants", h.ListParticipants)
		r.Post("/feedback", h.SubmitFeedback)
		r.Get("/certificates", h.Certificate)

		r.Group(func(r chi.Router) {
			r.Use(Device)
			r.Get("/form", h.GetForm)
			r.Put("/form", h.UpdateForm)
			r.Delete("/form", h.ClearForm)
			r.Post("/register", h.Register)
			r.Get("/notifications", h.ListNotifications)
			r.Delete("/notifications/{id}", h.DismissNotification)
			r.Post("/notifications/{id}/retry", h.RetryNotification)
		})
	})

	if cfg.WebDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.WebDir)))
	}
	return r
}
