package services

import (
	"context"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
)

// ComparisonService serves test detail and the side-by-side comparison view
type ComparisonService struct {
	testRepo       repositories.TestRepository
	comparisonRepo repositories.ComparisonRepository
}

// NewComparisonService creates a new comparison service
func NewComparisonService(testRepo repositories.TestRepository, comparisonRepo repositories.ComparisonRepository) *ComparisonService {
	return &ComparisonService{
		testRepo:       testRepo,
		comparisonRepo: comparisonRepo,
	}
}

// GetTest returns one canonical test with its joined department
func (s *ComparisonService) GetTest(ctx context.Context, id int64) (*entities.CanonicalTest, error) {
	return s.testRepo.GetByID(ctx, id)
}

// Compare returns one comparison row per lab and city for the given test,
// cheapest first. When a lab prices the same test more than once in a city
// only its cheapest row survives. An unknown test id surfaces as not found.
func (s *ComparisonService) Compare(ctx context.Context, testID int64, city string) ([]*entities.TestComparisonRow, error) {
	if _, err := s.testRepo.GetByID(ctx, testID); err != nil {
		return nil, err
	}

	rows, err := s.comparisonRepo.ListByTest(ctx, testID, city)
	if err != nil {
		return nil, err
	}

	// Rows arrive ordered by ascending price, so first wins is cheapest wins
	type slot struct {
		labSlug string
		city    string
	}
	seen := make(map[slot]struct{}, len(rows))
	deduped := make([]*entities.TestComparisonRow, 0, len(rows))
	for _, row := range rows {
		key := slot{labSlug: row.LabSlug}
		if row.City != nil {
			key.city = *row.City
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, row)
	}
	return deduped, nil
}
