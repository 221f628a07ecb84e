package services

import (
	"context"
	"strings"

	"github.com/pathlens/labtestcompare/backend/internal/application/loaders"
	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

// In-memory repository fakes shared by the service tests

type stubCityRepo struct {
	cities []*entities.City
	err    error
}

func (r *stubCityRepo) GetByName(ctx context.Context, name string) (*entities.City, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.cities {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("city not found")
}

func (r *stubCityRepo) List(ctx context.Context) ([]*entities.City, error) {
	return r.cities, r.err
}

type stubLocationRepo struct {
	byCity map[int64][]int64
	err    error
}

func (r *stubLocationRepo) ListIDsByCity(ctx context.Context, cityID int64) ([]int64, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byCity[cityID], nil
}

type stubTestRepo struct {
	searchResults []*entities.CanonicalTest
	popular       []*entities.CanonicalTest
	byID          map[int64]*entities.CanonicalTest
	err           error

	lastQuery      string
	lastDepartment string
}

func (r *stubTestRepo) SearchByName(ctx context.Context, query, department string, limit int) ([]*entities.CanonicalTest, error) {
	r.lastQuery = query
	r.lastDepartment = department
	if r.err != nil {
		return nil, r.err
	}
	if len(r.searchResults) > limit {
		return r.searchResults[:limit], nil
	}
	return r.searchResults, nil
}

func (r *stubTestRepo) GetByID(ctx context.Context, id int64) (*entities.CanonicalTest, error) {
	if r.err != nil {
		return nil, r.err
	}
	if t, ok := r.byID[id]; ok {
		return t, nil
	}
	return nil, apperrors.NewNotFoundError("test not found")
}

func (r *stubTestRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entities.CanonicalTest, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := []*entities.CanonicalTest{}
	for _, id := range ids {
		if t, ok := r.byID[id]; ok {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *stubTestRepo) ListPopular(ctx context.Context, limit int) ([]*entities.CanonicalTest, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.popular) > limit {
		return r.popular[:limit], nil
	}
	return r.popular, nil
}

type stubOfferingRepo struct {
	byTestIDs []*entities.TestOffering
	scanned   []*entities.TestOffering
	byLab     []*entities.TestOffering
	scanErr   error

	lastLabID       int64
	lastLocationIDs []int64
	lastWindow      int
}

func (r *stubOfferingRepo) ListByTestIDs(ctx context.Context, testIDs []int64) ([]*entities.TestOffering, error) {
	allowed := make(map[int64]struct{}, len(testIDs))
	for _, id := range testIDs {
		allowed[id] = struct{}{}
	}
	result := []*entities.TestOffering{}
	for _, o := range r.byTestIDs {
		if o.CanonicalTestID == nil {
			continue
		}
		if _, ok := allowed[*o.CanonicalTestID]; ok {
			result = append(result, o)
		}
	}
	return result, nil
}

func (r *stubOfferingRepo) ScanByLocations(ctx context.Context, locationIDs []int64) ([]*entities.TestOffering, error) {
	r.lastLocationIDs = locationIDs
	return r.scanned, r.scanErr
}

func (r *stubOfferingRepo) ListByLab(ctx context.Context, labID int64, locationIDs []int64, window int) ([]*entities.TestOffering, error) {
	r.lastLabID = labID
	r.lastLocationIDs = locationIDs
	r.lastWindow = window
	return r.byLab, nil
}

type stubLabRepo struct {
	labs []*entities.Lab
	err  error
}

func (r *stubLabRepo) GetBySlug(ctx context.Context, slug string) (*entities.Lab, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, l := range r.labs {
		if l.Slug == slug {
			return l, nil
		}
	}
	return nil, apperrors.NewNotFoundError("lab not found")
}

func (r *stubLabRepo) List(ctx context.Context) ([]*entities.Lab, error) {
	return r.labs, r.err
}

func (r *stubLabRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Lab, error) {
	allowed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	result := []*entities.Lab{}
	for _, l := range r.labs {
		if _, ok := allowed[l.ID]; ok {
			result = append(result, l)
		}
	}
	return result, r.err
}

type stubDepartmentRepo struct {
	names []string
	err   error
}

func (r *stubDepartmentRepo) ListNames(ctx context.Context) ([]string, error) {
	return r.names, r.err
}

type stubComparisonRepo struct {
	rows []*entities.TestComparisonRow
	err  error

	lastCity string
}

func (r *stubComparisonRepo) ListByTest(ctx context.Context, testID int64, city string) ([]*entities.TestComparisonRow, error) {
	r.lastCity = city
	return r.rows, r.err
}

func newTestLoaders(testRepo *stubTestRepo, labRepo *stubLabRepo) func() *loaders.Loaders {
	return func() *loaders.Loaders {
		return loaders.NewLoaders(testRepo, labRepo, 200, nil)
	}
}

func ptr[T any](v T) *T { return &v }

func offering(id, testID, labID, locationID int64, price float64, department string) *entities.TestOffering {
	return &entities.TestOffering{
		ID:              id,
		CanonicalTestID: &testID,
		LabID:           labID,
		LabLocationID:   locationID,
		Price:           price,
		IsActive:        true,
		DepartmentRaw:   department,
	}
}
