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

type SurveyHandler struct {
	registry *session.Registry
	surveys  *repository.SurveyRepo
	logger   zerolog.Logger
}

func NewSurveyHandler(registry *session.Registry, surveys *repository.SurveyRepo, logger zerolog.Logger) *SurveyHandler {
	return &SurveyHandler{
		registry: registry,
		surveys:  surveys,
		logger:   logger.With().Str(logging.FieldComponent, "surveys").Logger(),
	}
}

// Questions returns the fixed survey catalog and rating scale so the
// kiosk renders the same questions the admin reports aggregate on.
func (h *SurveyHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions":     models.SurveyQuestions,
		"rating_labels": models.RatingLabels,
	})
}

func (h *SurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Location     *string         `json:"location"`
		Tenure       string          `json:"tenure"`
		Responses    json.RawMessage `json:"responses"`
		OpenFeedback json.RawMessage `json:"open_feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Tenure == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"tenure": "Tenure is required"}, r))
		return
	}

	mgr := h.registry.Manager(kioskID(r))
	sessionID, active := mgr.SessionID()
	if !active {
		writeJSON(w, http.StatusConflict, errorResp("SESSION_REQUIRED", "Start a session before submitting", r))
		return
	}

	resp := &models.SurveyResponse{
		SessionID:       &sessionID,
		ReferenceNumber: refnum.Generate(),
		Location:        req.Location,
		Tenure:          req.Tenure,
		Responses:       req.Responses,
		OpenFeedback:    req.OpenFeedback,
	}
	if err := h.surveys.Create(r.Context(), resp); err != nil {
		h.logger.Error().Err(err).Msg("failed to store survey response")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save survey. Please try again.", r))
		return
	}

	mgr.LogActivity(models.ActivitySurveySubmitted, map[string]interface{}{
		"reference_number": resp.ReferenceNumber,
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"reference_number": resp.ReferenceNumber,
	})
}

// Bypass records that the resident skipped the survey. Nothing is
// stored beyond the activity entry.
func (h *SurveyHandler) Bypass(w http.ResponseWriter, r *http.Request) {
	h.registry.Manager(kioskID(r)).LogActivity(models.ActivitySurveyBypassed, nil)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Survey skipped"})
}
