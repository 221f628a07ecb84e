package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathlens/labtestcompare/backend/internal/application/loaders"
	"github.com/pathlens/labtestcompare/backend/internal/application/services"
	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

func newAnalyticsFixture(scanErr error) *AnalyticsHandler {
	testRepo := &memTestRepo{tests: []*entities.CanonicalTest{
		{ID: 1, Name: "Complete Blood Count"},
	}}
	labRepo := &memLabRepo{labs: []*entities.Lab{
		{ID: 1, Slug: "metropolis"},
		{ID: 2, Slug: "agilus"},
	}}
	offeringRepo := &memOfferingRepo{
		offerings: []*entities.TestOffering{
			{ID: 1, CanonicalTestID: ptr(int64(1)), LabID: 1, LabLocationID: 11, Price: 300, IsActive: true, DepartmentRaw: "Haematology"},
			{ID: 2, CanonicalTestID: ptr(int64(1)), LabID: 2, LabLocationID: 21, Price: 400, IsActive: true, DepartmentRaw: "Haematology"},
		},
		scanErr: scanErr,
	}
	resolver := services.NewLocationResolver(
		&memCityRepo{cities: []*entities.City{{ID: 7, Name: "Mumbai"}}},
		&memLocationRepo{byCity: map[int64][]int64{7: {11, 21}}},
	)
	newLoaders := func() *loaders.Loaders {
		return loaders.NewLoaders(testRepo, labRepo, 200, nil)
	}
	heatmap := services.NewHeatmapService(labRepo, offeringRepo, resolver, newLoaders, 100)
	availability := services.NewAvailabilityService(labRepo, &memDepartmentRepo{names: []string{"Haematology"}}, offeringRepo, resolver)
	return NewAnalyticsHandler(heatmap, availability)
}

func TestHeatmap_MissingCityIsRejected(t *testing.T) {
	h := newAnalyticsFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/heatmap", nil)
	rec := httptest.NewRecorder()
	h.Heatmap(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHeatmap_ReturnsSpreadRankedEntries(t *testing.T) {
	h := newAnalyticsFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/heatmap?city=Mumbai", nil)
	rec := httptest.NewRecorder()
	h.Heatmap(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []*entities.PriceHeatmapEntry `json:"results"`
		Count   int                           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, 100.0, body.Results[0].PriceSpread)
	assert.Equal(t, 300.0, body.Results[0].LabPrices["metropolis"])
}

func TestHeatmap_PartialScanStillAnswers200(t *testing.T) {
	h := newAnalyticsFixture(apperrors.NewPartialFetchError("scan truncated", errors.New("timeout")))

	req := httptest.NewRequest(http.MethodGet, "/api/heatmap?city=Mumbai", nil)
	rec := httptest.NewRecorder()
	h.Heatmap(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestAvailability_ReturnsMatrix(t *testing.T) {
	h := newAnalyticsFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/availability?city=Mumbai", nil)
	rec := httptest.NewRecorder()
	h.Availability(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []*entities.AvailabilityEntry `json:"results"`
		Count   int                           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "Haematology", body.Results[0].Department)
}

func TestAvailability_MissingCityIsRejected(t *testing.T) {
	h := newAnalyticsFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/availability", nil)
	rec := httptest.NewRecorder()
	h.Availability(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
