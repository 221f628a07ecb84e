package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

func newHeatmapFixture() (*HeatmapService, *stubTestRepo, *stubOfferingRepo) {
	labRepo := &stubLabRepo{labs: []*entities.Lab{
		{ID: 1, Slug: "metropolis"},
		{ID: 2, Slug: "agilus"},
	}}
	testRepo := &stubTestRepo{byID: map[int64]*entities.CanonicalTest{
		1: {ID: 1, Name: "Complete Blood Count"},
		2: {ID: 2, Name: "Blood Glucose Fasting"},
	}}
	offeringRepo := &stubOfferingRepo{scanned: []*entities.TestOffering{
		offering(1, 1, 1, 11, 300, ""),
		offering(2, 1, 1, 11, 350, ""),
		offering(3, 1, 2, 21, 400, ""),
		// Glucose is priced by one lab only and must not appear
		offering(4, 2, 1, 11, 120, ""),
	}}
	resolver := NewLocationResolver(
		&stubCityRepo{cities: []*entities.City{{ID: 7, Name: "Mumbai"}}},
		&stubLocationRepo{byCity: map[int64][]int64{7: {11, 21}}},
	)
	svc := NewHeatmapService(labRepo, offeringRepo, resolver, newTestLoaders(testRepo, labRepo), 100)
	return svc, testRepo, offeringRepo
}

func TestHeatmap_KeepsOnlyTestsPricedByTwoLabs(t *testing.T) {
	svc, _, _ := newHeatmapFixture()

	entries, err := svc.Heatmap(context.Background(), "Mumbai", 0)

	require.NoError(t, err)
	require.Len(t, entries, 1)

	cbc := entries[0]
	assert.Equal(t, int64(1), cbc.CanonicalTestID)
	assert.Equal(t, "Complete Blood Count", cbc.TestName)
	assert.Equal(t, 2, cbc.LabCount)
	assert.Equal(t, 325.0, cbc.LabPrices["metropolis"])
	assert.Equal(t, 400.0, cbc.LabPrices["agilus"])
	assert.Equal(t, 75.0, cbc.PriceSpread)
}

func TestHeatmap_SpreadUsesUnroundedAverages(t *testing.T) {
	svc, _, offeringRepo := newHeatmapFixture()
	offeringRepo.scanned = []*entities.TestOffering{
		offering(1, 1, 1, 11, 100, ""),
		offering(2, 1, 1, 11, 101, ""),
		offering(3, 1, 2, 21, 200, ""),
	}

	entries, err := svc.Heatmap(context.Background(), "Mumbai", 0)

	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Display average rounds 100.5 up, but the spread is 200 - 100.5
	assert.Equal(t, 101.0, entries[0].LabPrices["metropolis"])
	assert.Equal(t, 100.0, entries[0].PriceSpread)
}

func TestHeatmap_RanksByDescendingSpread(t *testing.T) {
	svc, testRepo, offeringRepo := newHeatmapFixture()
	testRepo.byID[3] = &entities.CanonicalTest{ID: 3, Name: "Thyroid Profile"}
	offeringRepo.scanned = []*entities.TestOffering{
		offering(1, 1, 1, 11, 300, ""),
		offering(2, 1, 2, 21, 400, ""),
		offering(3, 3, 1, 11, 500, ""),
		offering(4, 3, 2, 21, 900, ""),
	}

	entries, err := svc.Heatmap(context.Background(), "Mumbai", 0)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(3), entries[0].CanonicalTestID)
	assert.Equal(t, 400.0, entries[0].PriceSpread)
	assert.Equal(t, int64(1), entries[1].CanonicalTestID)
}

func TestHeatmap_HonorsTheLimit(t *testing.T) {
	svc, testRepo, offeringRepo := newHeatmapFixture()
	testRepo.byID[3] = &entities.CanonicalTest{ID: 3, Name: "Thyroid Profile"}
	offeringRepo.scanned = []*entities.TestOffering{
		offering(1, 1, 1, 11, 300, ""),
		offering(2, 1, 2, 21, 400, ""),
		offering(3, 3, 1, 11, 500, ""),
		offering(4, 3, 2, 21, 900, ""),
	}

	entries, err := svc.Heatmap(context.Background(), "Mumbai", 1)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].CanonicalTestID)
}

func TestHeatmap_UnknownCityYieldsEmptyResult(t *testing.T) {
	svc, _, _ := newHeatmapFixture()

	entries, err := svc.Heatmap(context.Background(), "Atlantis", 0)

	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHeatmap_PartialScanReturnsEntriesAndTheError(t *testing.T) {
	svc, _, offeringRepo := newHeatmapFixture()
	offeringRepo.scanErr = apperrors.NewPartialFetchError("scan truncated", errors.New("connection reset"))

	entries, err := svc.Heatmap(context.Background(), "Mumbai", 0)

	require.Len(t, entries, 1)
	assert.True(t, apperrors.IsPartialFetch(err))
}

// A priced test whose name lookup misses keeps its entry under a
// placeholder name instead of vanishing from the heatmap
func TestHeatmap_UnresolvedTestNameFallsBackToPlaceholder(t *testing.T) {
	svc, testRepo, _ := newHeatmapFixture()
	delete(testRepo.byID, 1)

	entries, err := svc.Heatmap(context.Background(), "Mumbai", 0)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].CanonicalTestID)
	assert.Equal(t, "Test #1", entries[0].TestName)
	assert.Equal(t, 2, entries[0].LabCount)
}

func TestHeatmap_SkipsNonPositivePrices(t *testing.T) {
	svc, _, offeringRepo := newHeatmapFixture()
	offeringRepo.scanned = []*entities.TestOffering{
		offering(1, 1, 1, 11, 300, ""),
		offering(2, 1, 2, 21, 0, ""),
	}

	entries, err := svc.Heatmap(context.Background(), "Mumbai", 0)

	require.NoError(t, err)
	assert.Empty(t, entries) // the zero-price lab does not count toward coverage
}
