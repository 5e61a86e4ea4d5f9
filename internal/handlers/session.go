package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/genepreston69/uplift-frame/internal/session"
)

type SessionHandler struct {
	registry *session.Registry
}

func NewSessionHandler(registry *session.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// Start begins the kiosk's time-boxed session. A second start while one
// is running is rejected without touching the running timers.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	mgr := h.registry.Manager(kioskID(r))

	id, err := mgr.Start(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrSessionActive) {
			writeJSON(w, http.StatusConflict, errorResp("SESSION_ACTIVE", "A session is already running on this kiosk", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("STORE_ERROR", "Failed to start session. Please try again.", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id":             id,
		"is_active":              true,
		"time_remaining_seconds": int(mgr.TimeRemaining() / time.Second),
	})
}

// Get exposes the read-only observables the kiosk UI renders.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	mgr := h.registry.Manager(kioskID(r))

	id, active := mgr.SessionID()
	resp := map[string]interface{}{
		"is_active":              active,
		"time_remaining_seconds": int(mgr.TimeRemaining() / time.Second),
	}
	if active {
		resp["session_id"] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// End finalizes the session. Ending an already-inactive session is a
// no-op so a stale kiosk page cannot produce user-visible errors.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	mgr := h.registry.Manager(kioskID(r))

	if err := mgr.End(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to end session", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session ended. All data has been cleared."})
}

// Activity records a resident event and resets the idle clock. Events
// arriving after teardown are dropped silently.
func (h *SessionHandler) Activity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Activity string                 `json:"activity"`
		Details  map[string]interface{} `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Activity == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "activity is required", r))
		return
	}

	h.registry.Manager(kioskID(r)).LogActivity(req.Activity, req.Details)
	w.WriteHeader(http.StatusNoContent)
}
