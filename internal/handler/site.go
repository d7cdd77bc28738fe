package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Shivanand-hulikatti/event-registration/internal/certificate"
	"github.com/Shivanand-hulikatti/event-registration/internal/model"
	"github.com/Shivanand-hulikatti/event-registration/internal/service"
)

// ListParticipants handles GET /api/participants
// Returns every registrant, newest first, with the total count.
func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	list, err := h.site.ListParticipants(r.Context())
	if err != nil {
		h.logger.Error("failed to list participants", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list participants")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// SubmitFeedback handles POST /api/feedback
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req model.FeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	fb, err := h.site.SubmitFeedback(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFeedback) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to submit feedback", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit feedback")
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

// Certificate handles GET /api/certificates?email=
// Serves the certificate issued to the email's local part as a download.
func (h *Handler) Certificate(w http.ResponseWriter, r *http.Request) {
	cert, err := h.certs.Open(r.URL.Query().Get("email"))
	if err != nil {
		switch {
		case errors.Is(err, certificate.ErrEmailRequired):
			writeError(w, http.StatusBadRequest, "email is required")
		case errors.Is(err, certificate.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, "invalid email address")
		case errors.Is(err, certificate.ErrNotFound):
			writeError(w, http.StatusNotFound, "certificate not found for this email")
		default:
			h.logger.Error("failed to open certificate", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to fetch certificate")
		}
		return
	}
	defer cert.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cert.Filename))
	http.ServeContent(w, r, cert.Filename, time.Time{}, cert)
}
