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

type IntakeHandler struct {
	registry *session.Registry
	intakes  *repository.IntakeRepo
	logger   zerolog.Logger
}

func NewIntakeHandler(registry *session.Registry, intakes *repository.IntakeRepo, logger zerolog.Logger) *IntakeHandler {
	return &IntakeHandler{
		registry: registry,
		intakes:  intakes,
		logger:   logger.With().Str(logging.FieldComponent, "intake").Logger(),
	}
}

// Submit stores an intake application. The structured fields are all
// optional; whatever the form collected beyond them rides in form_data.
func (h *IntakeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName                *string         `json:"first_name"`
		LastName                 *string         `json:"last_name"`
		DateOfBirth              *string         `json:"date_of_birth"`
		Phone                    *string         `json:"phone"`
		Email                    *string         `json:"email"`
		Address                  *string         `json:"address"`
		City                     *string         `json:"city"`
		State                    *string         `json:"state"`
		ZipCode                  *string         `json:"zip_code"`
		EmergencyContactName     *string         `json:"emergency_contact_name"`
		EmergencyContactPhone    *string         `json:"emergency_contact_phone"`
		EmergencyContactRelation *string         `json:"emergency_contact_relationship"`
		ReferralSource           *string         `json:"referral_source"`
		FormData                 json.RawMessage `json:"form_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	mgr := h.registry.Manager(kioskID(r))
	sessionID, active := mgr.SessionID()
	if !active {
		writeJSON(w, http.StatusConflict, errorResp("SESSION_REQUIRED", "Start a session before submitting", r))
		return
	}

	sub := &models.IntakeSubmission{
		SessionID:                &sessionID,
		ReferenceNumber:          refnum.Generate(),
		FirstName:                req.FirstName,
		LastName:                 req.LastName,
		DateOfBirth:              req.DateOfBirth,
		Phone:                    req.Phone,
		Email:                    req.Email,
		Address:                  req.Address,
		City:                     req.City,
		State:                    req.State,
		ZipCode:                  req.ZipCode,
		EmergencyContactName:     req.EmergencyContactName,
		EmergencyContactPhone:    req.EmergencyContactPhone,
		EmergencyContactRelation: req.EmergencyContactRelation,
		ReferralSource:           req.ReferralSource,
		FormData:                 req.FormData,
	}
	if err := h.intakes.Create(r.Context(), sub); err != nil {
		h.logger.Error().Err(err).Msg("failed to store intake submission")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save application. Please try again.", r))
		return
	}

	mgr.LogActivity(models.ActivityIntake, map[string]interface{}{
		"reference_number": sub.ReferenceNumber,
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"reference_number": sub.ReferenceNumber,
	})
}
