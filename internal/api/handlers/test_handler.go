package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pathlens/labtestcompare/backend/internal/application/services"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/observability"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

const defaultPopularLimit = 50

// TestHandler handles test search, detail and comparison requests
type TestHandler struct {
	searchService     *services.SearchService
	comparisonService *services.ComparisonService
}

// NewTestHandler creates a new test handler
func NewTestHandler(searchService *services.SearchService, comparisonService *services.ComparisonService) *TestHandler {
	return &TestHandler{
		searchService:     searchService,
		comparisonService: comparisonService,
	}
}

// SearchTests handles GET /api/tests/search
func (h *TestHandler) SearchTests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	city := r.URL.Query().Get("city")
	department := r.URL.Query().Get("department")

	results, err := h.searchService.Search(r.Context(), q, city, department)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("query", q).Msg("test search failed")
		respondWithError(w, http.StatusInternalServerError, "failed to search tests")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// PopularTests handles GET /api/tests/popular
func (h *TestHandler) PopularTests(w http.ResponseWriter, r *http.Request) {
	limit := parsePositiveInt(r.URL.Query().Get("limit"), defaultPopularLimit)

	results, err := h.searchService.Popular(r.Context(), limit)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("popular tests failed")
		respondWithError(w, http.StatusInternalServerError, "failed to list popular tests")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// GetTest handles GET /api/tests/{id}
func (h *TestHandler) GetTest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "test ID must be an integer")
		return
	}

	test, err := h.comparisonService.GetTest(r.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			respondWithError(w, http.StatusNotFound, "test not found")
			return
		}
		observability.LoggerFromContext(r.Context()).Error().Err(err).Int64("test_id", id).Msg("get test failed")
		respondWithError(w, http.StatusInternalServerError, "failed to get test")
		return
	}

	respondWithJSON(w, http.StatusOK, test)
}

// CompareTest handles GET /api/tests/{id}/comparison
func (h *TestHandler) CompareTest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "test ID must be an integer")
		return
	}
	city := r.URL.Query().Get("city")

	rows, err := h.comparisonService.Compare(r.Context(), id, city)
	if err != nil {
		if apperrors.IsNotFound(err) {
			respondWithError(w, http.StatusNotFound, "test not found")
			return
		}
		observability.LoggerFromContext(r.Context()).Error().Err(err).Int64("test_id", id).Msg("test comparison failed")
		respondWithError(w, http.StatusInternalServerError, "failed to compare test")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": rows,
		"count":   len(rows),
	})
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
