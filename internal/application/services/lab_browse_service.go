package services

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pathlens/labtestcompare/backend/internal/application/loaders"
	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

// LabBrowseService lists one lab's catalog with per-test price aggregates
type LabBrowseService struct {
	labRepo      repositories.LabRepository
	offeringRepo repositories.OfferingRepository
	resolver     *LocationResolver
	newLoaders   func() *loaders.Loaders
	browseWindow int
	browseLimit  int
}

// NewLabBrowseService creates a new lab browse service. newLoaders is
// invoked once per call so every browse resolves names against a fresh
// snapshot.
func NewLabBrowseService(
	labRepo repositories.LabRepository,
	offeringRepo repositories.OfferingRepository,
	resolver *LocationResolver,
	newLoaders func() *loaders.Loaders,
	browseWindow, browseLimit int,
) *LabBrowseService {
	return &LabBrowseService{
		labRepo:      labRepo,
		offeringRepo: offeringRepo,
		resolver:     resolver,
		newLoaders:   newLoaders,
		browseWindow: browseWindow,
		browseLimit:  browseLimit,
	}
}

// Browse returns up to browseLimit of one lab's tests with price
// aggregates, alphabetically by test name. An unknown slug or an unknown
// city yields an empty listing, not an error. query optionally narrows the
// listing by case-insensitive substring on the resolved test name.
func (s *LabBrowseService) Browse(ctx context.Context, slug, city, query string) ([]*entities.SearchResult, error) {
	lab, err := s.labRepo.GetBySlug(ctx, slug)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return []*entities.SearchResult{}, nil
		}
		return nil, err
	}

	locationIDs, ok, err := s.resolver.Resolve(ctx, city)
	if err != nil {
		return nil, err
	}
	// A known city with no locations browses empty, same as an unknown one
	if !ok || (city != "" && len(locationIDs) == 0) {
		return []*entities.SearchResult{}, nil
	}

	offerings, err := s.offeringRepo.ListByLab(ctx, lab.ID, locationIDs, s.browseWindow)
	if err != nil {
		return nil, err
	}

	prices := make(map[int64][]float64)
	for _, o := range offerings {
		if o.CanonicalTestID == nil || o.Price <= 0 {
			continue
		}
		prices[*o.CanonicalTestID] = append(prices[*o.CanonicalTestID], o.Price)
	}
	if len(prices) == 0 {
		return []*entities.SearchResult{}, nil
	}

	ids := make([]int64, 0, len(prices))
	for id := range prices {
		ids = append(ids, id)
	}
	tests, err := s.newLoaders().TestsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))

	results := make([]*entities.SearchResult, 0, len(prices))
	for id, testPrices := range prices {
		t, found := tests[id]
		if !found {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Name), query) {
			continue
		}
		min, max, avg := priceStats(testPrices)
		results = append(results, &entities.SearchResult{
			CanonicalTestID: t.ID,
			TestName:        t.Name,
			Department:      t.DepartmentName(),
			SimilarityScore: exactScore,
			LabCount:        1,
			MinPrice:        &min,
			MaxPrice:        &max,
			AvgPrice:        &avg,
		})
	}

	// Collators are not safe for concurrent use, so build one per call
	c := collate.New(language.English, collate.IgnoreCase)
	sort.Slice(results, func(i, j int) bool {
		return c.CompareString(results[i].TestName, results[j].TestName) < 0
	})

	if len(results) > s.browseLimit {
		results = results[:s.browseLimit]
	}
	return results, nil
}
