package repositories

import (
	"context"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
)

// CityRepository provides read access to the cities reference table
type CityRepository interface {
	// GetByName matches a city by case-insensitive exact name. When the
	// table holds duplicate names the first row in store order wins.
	GetByName(ctx context.Context, name string) (*entities.City, error)
	List(ctx context.Context) ([]*entities.City, error)
}

// LabLocationRepository provides read access to lab locations
type LabLocationRepository interface {
	// ListIDsByCity returns every lab_location id in the given city
	ListIDsByCity(ctx context.Context, cityID int64) ([]int64, error)
}

// DepartmentRepository provides read access to the canonical department
// taxonomy. The taxonomy is small and fetched fresh on every aggregation
// pass so one pass always sees a single consistent snapshot.
type DepartmentRepository interface {
	ListNames(ctx context.Context) ([]string, error)
}

// LabRepository provides read access to the labs reference table
type LabRepository interface {
	GetBySlug(ctx context.Context, slug string) (*entities.Lab, error)
	List(ctx context.Context) ([]*entities.Lab, error)
	// GetByIDs resolves labs for a bounded id set. Callers must keep the
	// set within the store's id-filter bound; the batched loaders do.
	GetByIDs(ctx context.Context, ids []int64) ([]*entities.Lab, error)
}
