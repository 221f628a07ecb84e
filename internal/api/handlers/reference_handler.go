package handlers

import (
	"net/http"

	"github.com/pathlens/labtestcompare/backend/internal/application/services"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/observability"
)

// ReferenceHandler serves the reference listings backing filters
type ReferenceHandler struct {
	referenceService *services.ReferenceService
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(referenceService *services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{
		referenceService: referenceService,
	}
}

// ListCities handles GET /api/cities
func (h *ReferenceHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.referenceService.Cities(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("list cities failed")
		respondWithError(w, http.StatusInternalServerError, "failed to list cities")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": cities,
		"count":   len(cities),
	})
}

// ListDepartments handles GET /api/departments
func (h *ReferenceHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.referenceService.Departments(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("list departments failed")
		respondWithError(w, http.StatusInternalServerError, "failed to list departments")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": departments,
		"count":   len(departments),
	})
}
