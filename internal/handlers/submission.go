package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/genepreston69/uplift-frame/internal/logging"
	"github.com/genepreston69/uplift-frame/internal/models"
	"github.com/genepreston69/uplift-frame/internal/refnum"
	"github.com/genepreston69/uplift-frame/internal/repository"
	"github.com/genepreston69/uplift-frame/internal/session"
)

type SubmissionHandler struct {
	registry    *session.Registry
	submissions *repository.SubmissionRepo
	logger      zerolog.Logger
}

func NewSubmissionHandler(registry *session.Registry, submissions *repository.SubmissionRepo, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		registry:    registry,
		submissions: submissions,
		logger:      logger.With().Str(logging.FieldComponent, "submissions").Logger(),
	}
}

// Create accepts a grievance or innovation submission. The resident gets
// a reference number back; it is their only handle on the submission
// once the session's local state is cleared.
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type    string          `json:"type"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if req.Type != models.SubmissionGrievance && req.Type != models.SubmissionInnovation {
		fields["type"] = "Type must be grievance or innovation"
	}
	if len(req.Content) == 0 || string(req.Content) == "null" {
		fields["content"] = "Content is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	mgr := h.registry.Manager(kioskID(r))
	sessionID, active := mgr.SessionID()
	if !active {
		writeJSON(w, http.StatusConflict, errorResp("SESSION_REQUIRED", "Start a session before submitting", r))
		return
	}

	sub := &models.Submission{
		SessionID:       &sessionID,
		Type:            req.Type,
		ReferenceNumber: refnum.Generate(),
		Content:         req.Content,
	}
	if err := h.submissions.Create(r.Context(), sub); err != nil {
		h.logger.Error().Err(err).Str("type", req.Type).Msg("failed to store submission")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save submission. Please try again.", r))
		return
	}

	activity := models.ActivityGrievance
	if req.Type == models.SubmissionInnovation {
		activity = models.ActivityInnovation
	}
	mgr.LogActivity(activity, map[string]interface{}{
		"reference_number": sub.ReferenceNumber,
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"reference_number": sub.ReferenceNumber,
		"submission":       sub,
	})
}
