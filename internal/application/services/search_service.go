package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
)

const (
	// Similarity scores are fixed per operation: substring search makes no
	// finer relevance claim, curated and browsed listings are exact.
	searchScore = 0.5
	exactScore  = 1.0
)

// SearchService answers test search and the curated popular-tests feed,
// aggregating per-test price statistics across labs.
type SearchService struct {
	testRepo     repositories.TestRepository
	offeringRepo repositories.OfferingRepository
	resolver     *LocationResolver
	searchLimit  int
}

// NewSearchService creates a new search service
func NewSearchService(
	testRepo repositories.TestRepository,
	offeringRepo repositories.OfferingRepository,
	resolver *LocationResolver,
	searchLimit int,
) *SearchService {
	return &SearchService{
		testRepo:     testRepo,
		offeringRepo: offeringRepo,
		resolver:     resolver,
		searchLimit:  searchLimit,
	}
}

// Search matches tests by case-insensitive substring and aggregates their
// prices across labs, optionally narrowed to one department and one city.
// A city that matches nothing simply drops the city filter; results are
// ordered by descending lab coverage.
func (s *SearchService) Search(ctx context.Context, query, city, department string) ([]*entities.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*entities.SearchResult{}, nil
	}

	tests, err := s.testRepo.SearchByName(ctx, query, department, s.searchLimit)
	if err != nil {
		return nil, err
	}
	if len(tests) == 0 {
		return []*entities.SearchResult{}, nil
	}

	offerings, err := s.offeringRepo.ListByTestIDs(ctx, testIDs(tests))
	if err != nil {
		return nil, err
	}

	locationIDs, _, err := s.resolver.Resolve(ctx, city)
	if err != nil {
		return nil, err
	}
	offerings = filterByLocations(offerings, locationIDs)

	results := aggregateResults(tests, offerings, searchScore)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].LabCount > results[j].LabCount
	})
	return results, nil
}

// Popular returns the curated popular tests with the same cross-lab price
// aggregates as search, in curated order.
func (s *SearchService) Popular(ctx context.Context, limit int) ([]*entities.SearchResult, error) {
	tests, err := s.testRepo.ListPopular(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(tests) == 0 {
		return []*entities.SearchResult{}, nil
	}

	offerings, err := s.offeringRepo.ListByTestIDs(ctx, testIDs(tests))
	if err != nil {
		return nil, err
	}

	results := aggregateResults(tests, offerings, exactScore)
	// The popular feed never carries a department
	for _, r := range results {
		r.Department = nil
	}
	return results, nil
}

func testIDs(tests []*entities.CanonicalTest) []int64 {
	ids := make([]int64, len(tests))
	for i, t := range tests {
		ids[i] = t.ID
	}
	return ids
}

// filterByLocations keeps offerings at the given locations. A nil ID set
// means no filter; an empty set matches nothing.
func filterByLocations(offerings []*entities.TestOffering, locationIDs []int64) []*entities.TestOffering {
	if locationIDs == nil {
		return offerings
	}

	allowed := make(map[int64]struct{}, len(locationIDs))
	for _, id := range locationIDs {
		allowed[id] = struct{}{}
	}

	filtered := make([]*entities.TestOffering, 0, len(offerings))
	for _, o := range offerings {
		if _, ok := allowed[o.LabLocationID]; ok {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// aggregateResults folds offerings into one result row per test, in test
// order. Tests without a single priced offering keep nil statistics and a
// zero lab count rather than disappearing.
func aggregateResults(tests []*entities.CanonicalTest, offerings []*entities.TestOffering, score float64) []*entities.SearchResult {
	type bucket struct {
		labs   map[int64]struct{}
		prices []float64
	}

	buckets := make(map[int64]*bucket, len(tests))
	for _, o := range offerings {
		if o.CanonicalTestID == nil || o.Price <= 0 {
			continue
		}
		b := buckets[*o.CanonicalTestID]
		if b == nil {
			b = &bucket{labs: map[int64]struct{}{}}
			buckets[*o.CanonicalTestID] = b
		}
		b.labs[o.LabID] = struct{}{}
		b.prices = append(b.prices, o.Price)
	}

	results := make([]*entities.SearchResult, 0, len(tests))
	for _, t := range tests {
		r := &entities.SearchResult{
			CanonicalTestID: t.ID,
			TestName:        t.Name,
			Department:      t.DepartmentName(),
			SimilarityScore: score,
		}
		if b := buckets[t.ID]; b != nil {
			r.LabCount = len(b.labs)
			min, max, avg := priceStats(b.prices)
			r.MinPrice, r.MaxPrice, r.AvgPrice = &min, &max, &avg
		}
		results = append(results, r)
	}
	return results
}

// priceStats returns min, max and the rounded mean of a non-empty slice
func priceStats(prices []float64) (min, max, avg float64) {
	min, max = prices[0], prices[0]
	sum := 0.0
	for _, p := range prices {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
		sum += p
	}
	return min, max, math.Round(sum / float64(len(prices)))
}
