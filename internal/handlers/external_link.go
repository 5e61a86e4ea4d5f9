package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/genepreston69/uplift-frame/internal/logging"
	"github.com/genepreston69/uplift-frame/internal/models"
	"github.com/genepreston69/uplift-frame/internal/repository"
	"github.com/genepreston69/uplift-frame/internal/session"
	"github.com/genepreston69/uplift-frame/internal/whitelist"
)

type ExternalLinkHandler struct {
	registry *session.Registry
	links    *repository.ExternalLinkRepo
	checker  *whitelist.Checker
	logger   zerolog.Logger
}

func NewExternalLinkHandler(registry *session.Registry, links *repository.ExternalLinkRepo, checker *whitelist.Checker, logger zerolog.Logger) *ExternalLinkHandler {
	return &ExternalLinkHandler{
		registry: registry,
		links:    links,
		checker:  checker,
		logger:   logger.With().Str(logging.FieldComponent, "external_links").Logger(),
	}
}

// List returns the curated link catalog, each entry annotated with its
// current whitelist status so the kiosk can badge it.
func (h *ExternalLinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list external links")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load links", r))
		return
	}

	type annotated struct {
		*models.ExternalLink
		Status whitelist.Status `json:"status"`
	}
	out := make([]annotated, 0, len(links))
	for _, link := range links {
		out = append(out, annotated{
			ExternalLink: link,
			Status:       h.checker.Status(r.Context(), link.URL),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"links": out})
}

// Check classifies a URL before the kiosk opens it and records the
// click in the session's activity log.
func (h *ExternalLinkHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"url": "URL is required"}, r))
		return
	}

	status := h.checker.Status(r.Context(), req.URL)
	domain := whitelist.Domain(req.URL)

	h.registry.Manager(kioskID(r)).LogActivity(models.ActivityExternalLink, map[string]interface{}{
		"url":    req.URL,
		"domain": domain,
		"status": string(status),
	})

	h.logger.Debug().
		Str(logging.FieldDomain, domain).
		Str("status", string(status)).
		Msg("link check")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"url":    req.URL,
		"domain": domain,
		"status": status,
	})
}
