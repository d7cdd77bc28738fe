package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/event-registration/internal/model"
	"github.com/Shivanand-hulikatti/event-registration/internal/notify"
	"github.com/Shivanand-hulikatti/event-registration/internal/session"
	"github.com/Shivanand-hulikatti/event-registration/internal/submission"
)

// FormResponse is the visible form of the calling device.
type FormResponse struct {
	Fields      model.Draft      `json:"fields"`
	State       submission.State `json:"state"`
	GateOpen    bool             `json:"gateOpen"`
	LastOutcome string           `json:"lastOutcome,omitempty"`
}

// RegisterResponse is returned on optimistic completion.
type RegisterResponse struct {
	Status     string      `json:"status"`
	Submission model.Draft `json:"submission"`
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(r.Context(), DeviceID(r.Context()))
	if err != nil {
		h.logger.Error("failed to load session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return nil, false
	}
	return s, true
}

func (h *Handler) formResponse(s *session.Session) FormResponse {
	resp := FormResponse{
		Fields:   s.Controller.Form().Fields(),
		State:    s.Controller.State(),
		GateOpen: h.gate.Open(),
	}
	if o, ok := s.Controller.LastOutcome(); ok {
		resp.LastOutcome = string(o.Kind)
	}
	return resp
}

// GetForm handles GET /api/form
// Returns the visible form, restored from the persisted draft on first visit.
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.formResponse(s))
}

// UpdateForm handles PUT /api/form
// Replaces the visible field values and autosaves them.
func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := decodeJSON(w, r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if _, err := s.Controller.Edit(r.Context(), d); err != nil {
		if errors.Is(err, submission.ErrGateClosed) {
			writeError(w, http.StatusForbidden, "registration is closed")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update form")
		return
	}
	writeJSON(w, http.StatusOK, h.formResponse(s))
}

// ClearForm handles DELETE /api/form
func (h *Handler) ClearForm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Controller.Clear(r.Context())
	writeJSON(w, http.StatusOK, h.formResponse(s))
}

// Register handles POST /api/register
// Submits the visible form. Success here is optimistic; the confirmed or
// reverted outcome arrives later under /api/notifications.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	snapshot, err := s.Controller.Submit(r.Context())
	if err != nil {
		var verr *submission.ValidationError
		switch {
		case errors.Is(err, submission.ErrGateClosed):
			writeError(w, http.StatusForbidden, "registration is closed")
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: verr.Error(), Field: verr.Field})
		default:
			writeError(w, http.StatusInternalServerError, "failed to submit registration")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, RegisterResponse{Status: "registered", Submission: snapshot})
}

// ListNotifications handles GET /api/notifications
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Inbox.List())
}

// DismissNotification handles DELETE /api/notifications/{id}
func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Inbox.Dismiss(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RetryNotification handles POST /api/notifications/{id}/retry
// Re-runs the failed reconciliation with the original submission.
func (h *Handler) RetryNotification(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	err := s.Inbox.Retry(chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "retrying"})
	case errors.Is(err, notify.ErrNotFound):
		writeError(w, http.StatusNotFound, "notification not found")
	case errors.Is(err, notify.ErrNotRetryable), errors.Is(err, notify.ErrRetryUsed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to retry")
	}
}
