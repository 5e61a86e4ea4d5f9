package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/genepreston69/uplift-frame/internal/logging"
	"github.com/genepreston69/uplift-frame/internal/models"
	"github.com/genepreston69/uplift-frame/internal/repository"
	"github.com/genepreston69/uplift-frame/internal/services"
	"github.com/genepreston69/uplift-frame/internal/whitelist"
)

// AdminHandler backs the staff dashboard: catalog management, whitelist
// management, and read access to everything residents submitted.
type AdminHandler struct {
	admin       *services.AdminService
	resources   *repository.ResourceRepo
	links       *repository.ExternalLinkRepo
	checker     *whitelist.Checker
	submissions *repository.SubmissionRepo
	surveys     *repository.SurveyRepo
	intakes     *repository.IntakeRepo
	sessions    *repository.SessionRepo
	logger      zerolog.Logger
}

func NewAdminHandler(
	admin *services.AdminService,
	resources *repository.ResourceRepo,
	links *repository.ExternalLinkRepo,
	checker *whitelist.Checker,
	submissions *repository.SubmissionRepo,
	surveys *repository.SurveyRepo,
	intakes *repository.IntakeRepo,
	sessions *repository.SessionRepo,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		admin:       admin,
		resources:   resources,
		links:       links,
		checker:     checker,
		submissions: submissions,
		surveys:     surveys,
		intakes:     intakes,
		sessions:    sessions,
		logger:      logger.With().Str(logging.FieldComponent, "admin").Logger(),
	}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	token, err := h.admin.Login(req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// --- Resource catalog ---

type resourceRequest struct {
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	FileURL     *string `json:"file_url"`
	GuideText   *string `json:"guide_text"`
}

func (req *resourceRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.Category == "" {
		fields["category"] = "Category is required"
	}
	if req.Title == "" {
		fields["title"] = "Title is required"
	}
	return fields
}

func (h *AdminHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req resourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	res := &models.Resource{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		FileURL:     req.FileURL,
		GuideText:   req.GuideText,
	}
	if err := h.resources.Create(r.Context(), res); err != nil {
		h.logger.Error().Err(err).Msg("failed to create resource")
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *AdminHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid resource ID", r))
		return
	}

	var req resourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	res := &models.Resource{
		ID:          id,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		FileURL:     req.FileURL,
		GuideText:   req.GuideText,
	}
	if err := h.resources.Update(r.Context(), res); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Resource not found", r))
			return
		}
		h.logger.Error().Err(err).Msg("failed to update resource")
		handleServiceError(w, r, err)
		return
	}

	updated, err := h.resources.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid resource ID", r))
		return
	}
	if err := h.resources.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Resource not found", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- External link catalog ---

type linkRequest struct {
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	GuideText   *string `json:"guide_text"`
}

func (req *linkRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.Category == "" {
		fields["category"] = "Category is required"
	}
	if req.Title == "" {
		fields["title"] = "Title is required"
	}
	if req.URL == "" {
		fields["url"] = "URL is required"
	}
	return fields
}

func (h *AdminHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	link := &models.ExternalLink{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		GuideText:   req.GuideText,
	}
	if err := h.links.Create(r.Context(), link); err != nil {
		h.logger.Error().Err(err).Msg("failed to create external link")
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *AdminHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid link ID", r))
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	link := &models.ExternalLink{
		ID:          id,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		GuideText:   req.GuideText,
	}
	if err := h.links.Update(r.Context(), link); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "External link not found", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}

	updated, err := h.links.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid link ID", r))
		return
	}
	if err := h.links.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "External link not found", r))
			return
		}
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Whitelist management ---

func (h *AdminHandler) ListWhitelist(w http.ResponseWriter, r *http.Request) {
	custom, err := h.checker.CustomDomains(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list custom domains")
		handleServiceError(w, r, err)
		return
	}
	if custom == nil {
		custom = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default_domains": whitelist.DefaultDomains,
		"custom_domains":  custom,
	})
}

func (h *AdminHandler) AddWhitelistDomain(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Domain string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Domain == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"domain": "Domain is required"}, r))
		return
	}

	added, err := h.checker.AddCustomDomain(r.Context(), req.Domain)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"domain": "Enter a valid domain like example.org"}, r))
		return
	}
	if !added {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Domain is already whitelisted", r))
		return
	}
	h.logger.Info().Str(logging.FieldDomain, req.Domain).Msg("custom domain added")
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Domain added"})
}

func (h *AdminHandler) RemoveWhitelistDomain(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	if err := h.checker.RemoveCustomDomain(r.Context(), domain); err != nil {
		h.logger.Error().Err(err).Msg("failed to remove custom domain")
		handleServiceError(w, r, err)
		return
	}
	h.logger.Info().Str(logging.FieldDomain, domain).Msg("custom domain removed")
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ResetWhitelist(w http.ResponseWriter, r *http.Request) {
	if err := h.checker.ResetCustomDomains(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to reset whitelist")
		handleServiceError(w, r, err)
		return
	}
	h.logger.Info().Msg("whitelist reset to defaults")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Whitelist reset to defaults"})
}

// --- Submission review ---

func (h *AdminHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	submissionType := r.URL.Query().Get("type")
	if submissionType != "" && submissionType != models.SubmissionGrievance && submissionType != models.SubmissionInnovation {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"type": "Type must be grievance or innovation"}, r))
		return
	}

	limit, offset := parsePagination(r)
	submissions, total, err := h.submissions.List(r.Context(), submissionType, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list submissions")
		handleServiceError(w, r, err)
		return
	}
	if submissions == nil {
		submissions = []*models.Submission{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": submissions,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

func (h *AdminHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	surveys, total, err := h.surveys.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list survey responses")
		handleServiceError(w, r, err)
		return
	}
	if surveys == nil {
		surveys = []*models.SurveyResponse{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"surveys": surveys,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *AdminHandler) ListIntakes(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	intakes, total, err := h.intakes.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list intake submissions")
		handleServiceError(w, r, err)
		return
	}
	if intakes == nil {
		intakes = []*models.IntakeSubmission{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"intakes": intakes,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// ListSessions exposes finalized session records, activity logs included,
// for auditing kiosk usage.
func (h *AdminHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	sessions, total, err := h.sessions.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list sessions")
		handleServiceError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []*models.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}
