package repositories

import (
	"context"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
)

// TestRepository provides read access to the canonical test catalog
type TestRepository interface {
	// SearchByName matches tests whose name contains query as a
	// case-insensitive substring, optionally restricted to a department
	// name via the join. Substring matching is the only strategy.
	SearchByName(ctx context.Context, query, department string, limit int) ([]*entities.CanonicalTest, error)

	// GetByID returns one test with its joined department
	GetByID(ctx context.Context, id int64) (*entities.CanonicalTest, error)

	// GetByIDs resolves tests for a bounded id set with joined departments.
	// The store bounds the size of id-set filters; callers batch above
	// that bound (see application/loaders).
	GetByIDs(ctx context.Context, ids []int64) ([]*entities.CanonicalTest, error)

	// ListPopular returns curated tests flagged is_popular
	ListPopular(ctx context.Context, limit int) ([]*entities.CanonicalTest, error)
}

// OfferingRepository provides read access to the lab_tests fact table. The
// store enforces a per-request row ceiling; Scan methods page through the
// table until exhaustion and return whatever accumulated alongside any
// mid-scan error.
type OfferingRepository interface {
	// ListByTestIDs returns active, positively priced offerings linked to
	// the given canonical tests.
	ListByTestIDs(ctx context.Context, testIDs []int64) ([]*entities.TestOffering, error)

	// ScanByLocations pages through every active, test-linked offering at
	// the given locations. No price filter is applied at scan time.
	ScanByLocations(ctx context.Context, locationIDs []int64) ([]*entities.TestOffering, error)

	// ListByLab returns up to window active, positively priced, test-linked
	// offerings for one lab, optionally restricted to locationIDs.
	ListByLab(ctx context.Context, labID int64, locationIDs []int64, window int) ([]*entities.TestOffering, error)
}

// ComparisonRepository reads the precomputed test_comparison join view
type ComparisonRepository interface {
	// ListByTest returns comparison rows for one canonical test ordered by
	// ascending price, optionally filtered to a city name.
	ListByTest(ctx context.Context, testID int64, city string) ([]*entities.TestComparisonRow, error)
}
