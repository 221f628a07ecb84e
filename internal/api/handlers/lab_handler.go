package handlers

import (
	"net/http"

	"github.com/pathlens/labtestcompare/backend/internal/application/services"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/observability"
)

// LabHandler handles lab listing and per-lab catalog browsing
type LabHandler struct {
	browseService    *services.LabBrowseService
	referenceService *services.ReferenceService
}

// NewLabHandler creates a new lab handler
func NewLabHandler(browseService *services.LabBrowseService, referenceService *services.ReferenceService) *LabHandler {
	return &LabHandler{
		browseService:    browseService,
		referenceService: referenceService,
	}
}

// ListLabs handles GET /api/labs
func (h *LabHandler) ListLabs(w http.ResponseWriter, r *http.Request) {
	labs, err := h.referenceService.Labs(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("list labs failed")
		respondWithError(w, http.StatusInternalServerError, "failed to list labs")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": labs,
		"count":   len(labs),
	})
}

// BrowseLabTests handles GET /api/labs/{slug}/tests. An unknown slug or
// city answers an empty listing rather than an error.
func (h *LabHandler) BrowseLabTests(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "lab slug is required")
		return
	}
	city := r.URL.Query().Get("city")
	q := r.URL.Query().Get("q")

	results, err := h.browseService.Browse(r.Context(), slug, city, q)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("lab", slug).Msg("lab browse failed")
		respondWithError(w, http.StatusInternalServerError, "failed to browse lab tests")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}
