package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GateState is the body of GET /api/gate and of every gate event.
type GateState struct {
	Open bool `json:"open"`
}

// GateStatus handles GET /api/gate
func (h *Handler) GateStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GateState{Open: h.gate.Open()})
}

// GateEvents handles GET /api/gate/events
// Streams the current gate state, then every change, as server-sent events.
func (h *Handler) GateEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	events := h.gate.Subscribe(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeGateEvent(w, rc, h.gate.Open()); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeGateEvent(w, rc, ev.Payload); err != nil {
				return
			}
		}
	}
}

func writeGateEvent(w http.ResponseWriter, rc *http.ResponseController, open bool) error {
	data, err := json.Marshal(GateState{Open: open})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: gate\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}
