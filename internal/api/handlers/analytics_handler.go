package handlers

import (
	"net/http"

	"github.com/pathlens/labtestcompare/backend/internal/application/services"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/observability"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

// AnalyticsHandler serves the cross-lab heatmap and the availability matrix
type AnalyticsHandler struct {
	heatmapService      *services.HeatmapService
	availabilityService *services.AvailabilityService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(heatmapService *services.HeatmapService, availabilityService *services.AvailabilityService) *AnalyticsHandler {
	return &AnalyticsHandler{
		heatmapService:      heatmapService,
		availabilityService: availabilityService,
	}
}

// Heatmap handles GET /api/heatmap. A truncated scan still answers 200
// with whatever was aggregated; the degradation is logged, not surfaced.
func (h *AnalyticsHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		respondWithError(w, http.StatusBadRequest, "city is required")
		return
	}
	limit := parsePositiveInt(r.URL.Query().Get("limit"), 0)

	entries, err := h.heatmapService.Heatmap(r.Context(), city, limit)
	if err != nil {
		if !apperrors.IsPartialFetch(err) {
			observability.LoggerFromContext(r.Context()).Error().Err(err).Str("city", city).Msg("heatmap failed")
			respondWithError(w, http.StatusInternalServerError, "failed to build heatmap")
			return
		}
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("city", city).Msg("heatmap built from a partial scan")
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": entries,
		"count":   len(entries),
	})
}

// Availability handles GET /api/availability
func (h *AnalyticsHandler) Availability(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		respondWithError(w, http.StatusBadRequest, "city is required")
		return
	}

	entries, err := h.availabilityService.Availability(r.Context(), city)
	if err != nil {
		if !apperrors.IsPartialFetch(err) {
			observability.LoggerFromContext(r.Context()).Error().Err(err).Str("city", city).Msg("availability failed")
			respondWithError(w, http.StatusInternalServerError, "failed to build availability matrix")
			return
		}
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("city", city).Msg("availability built from a partial scan")
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": entries,
		"count":   len(entries),
	})
}
