package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pathlens/labtestcompare/backend/internal/application/loaders"
	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

// HeatmapService builds the cross-lab price heatmap for one city
type HeatmapService struct {
	labRepo      repositories.LabRepository
	offeringRepo repositories.OfferingRepository
	resolver     *LocationResolver
	newLoaders   func() *loaders.Loaders
	defaultLimit int
}

// NewHeatmapService creates a new heatmap service
func NewHeatmapService(
	labRepo repositories.LabRepository,
	offeringRepo repositories.OfferingRepository,
	resolver *LocationResolver,
	newLoaders func() *loaders.Loaders,
	defaultLimit int,
) *HeatmapService {
	return &HeatmapService{
		labRepo:      labRepo,
		offeringRepo: offeringRepo,
		resolver:     resolver,
		newLoaders:   newLoaders,
		defaultLimit: defaultLimit,
	}
}

// Heatmap scans every offering in the city and keeps tests priced by at
// least two distinct labs, ranked by descending price spread. The spread
// is computed from unrounded per-lab averages before the entries round
// them for display.
//
// When the scan dies partway through the entries built from the rows that
// did arrive are returned alongside the partial-fetch error.
func (s *HeatmapService) Heatmap(ctx context.Context, city string, limit int) ([]*entities.PriceHeatmapEntry, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	locationIDs, ok, err := s.resolver.Resolve(ctx, city)
	if err != nil {
		return nil, err
	}
	if !ok || len(locationIDs) == 0 {
		return []*entities.PriceHeatmapEntry{}, nil
	}

	offerings, scanErr := s.offeringRepo.ScanByLocations(ctx, locationIDs)
	if scanErr != nil && !apperrors.IsPartialFetch(scanErr) {
		return nil, scanErr
	}

	labs, err := s.labRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	slugByLab := make(map[int64]string, len(labs))
	for _, l := range labs {
		slugByLab[l.ID] = l.Slug
	}

	// test -> lab slug -> prices
	grouped := make(map[int64]map[string][]float64)
	for _, o := range offerings {
		if o.CanonicalTestID == nil || o.Price <= 0 {
			continue
		}
		slug, known := slugByLab[o.LabID]
		if !known {
			continue
		}
		byLab := grouped[*o.CanonicalTestID]
		if byLab == nil {
			byLab = make(map[string][]float64)
			grouped[*o.CanonicalTestID] = byLab
		}
		byLab[slug] = append(byLab[slug], o.Price)
	}

	ids := make([]int64, 0, len(grouped))
	for id, byLab := range grouped {
		if len(byLab) >= 2 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []*entities.PriceHeatmapEntry{}, scanErr
	}
	// Deterministic order for spread ties
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tests, err := s.newLoaders().TestsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]*entities.PriceHeatmapEntry, 0, len(ids))
	for _, id := range ids {
		// Priced entries still show up when the name lookup misses
		name := fmt.Sprintf("Test #%d", id)
		if t, found := tests[id]; found {
			name = t.Name
		}

		labPrices := make(map[string]float64, len(grouped[id]))
		minAvg, maxAvg := math.Inf(1), math.Inf(-1)
		for slug, prices := range grouped[id] {
			sum := 0.0
			for _, p := range prices {
				sum += p
			}
			avg := sum / float64(len(prices))
			labPrices[slug] = math.Round(avg)
			if avg < minAvg {
				minAvg = avg
			}
			if avg > maxAvg {
				maxAvg = avg
			}
		}

		entries = append(entries, &entities.PriceHeatmapEntry{
			CanonicalTestID: id,
			TestName:        name,
			LabPrices:       labPrices,
			PriceSpread:     math.Round(maxAvg - minAvg),
			LabCount:        len(labPrices),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PriceSpread > entries[j].PriceSpread
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, scanErr
}
