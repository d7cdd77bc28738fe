// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the registration flow and service layer.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Shivanand-hulikatti/event-registration/internal/certificate"
	"github.com/Shivanand-hulikatti/event-registration/internal/gate"
	"github.com/Shivanand-hulikatti/event-registration/internal/model"
	"github.com/Shivanand-hulikatti/event-registration/internal/service"
	"github.com/Shivanand-hulikatti/event-registration/internal/session"
)

// Handler holds all HTTP handlers of the registration site.
type Handler struct {
	sessions *session.Manager
	site     *service.SiteService
	certs    *certificate.Store
	gate     *gate.Monitor
	logger   *slog.Logger
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// New constructs a Handler.
func New(
	sessions *session.Manager,
	site *service.SiteService,
	certs *certificate.Store,
	monitor *gate.Monitor,
	opts ...Option,
) (*Handler, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if site == nil {
		return nil, fmt.Errorf("site service is required")
	}
	if certs == nil {
		return nil, fmt.Errorf("certificate store is required")
	}
	if monitor == nil {
		return nil, fmt.Errorf("gate monitor is required")
	}
	h := &Handler{
		sessions: sessions,
		site:     site,
		certs:    certs,
		gate:     monitor,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
