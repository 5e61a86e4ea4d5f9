package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/genepreston69/uplift-frame/internal/logging"
	"github.com/genepreston69/uplift-frame/internal/models"
	"github.com/genepreston69/uplift-frame/internal/repository"
)

type ResourceHandler struct {
	resources *repository.ResourceRepo
	logger    zerolog.Logger
}

func NewResourceHandler(resources *repository.ResourceRepo, logger zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{
		resources: resources,
		logger:    logger.With().Str(logging.FieldComponent, "resources").Logger(),
	}
}

// List returns the resource library, optionally narrowed with ?category=
// and ?search= query params.
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	resources, err := h.resources.List(r.Context(), category, search)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list resources")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load resources", r))
		return
	}
	if resources == nil {
		resources = []*models.Resource{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"resources": resources})
}
