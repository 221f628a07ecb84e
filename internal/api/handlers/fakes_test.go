package handlers

import (
	"context"
	"strings"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

// Minimal in-memory repositories backing real services in handler tests

type memCityRepo struct{ cities []*entities.City }

func (r *memCityRepo) GetByName(ctx context.Context, name string) (*entities.City, error) {
	for _, c := range r.cities {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("city not found")
}

func (r *memCityRepo) List(ctx context.Context) ([]*entities.City, error) {
	return r.cities, nil
}

type memLocationRepo struct{ byCity map[int64][]int64 }

func (r *memLocationRepo) ListIDsByCity(ctx context.Context, cityID int64) ([]int64, error) {
	return r.byCity[cityID], nil
}

type memTestRepo struct {
	tests   []*entities.CanonicalTest
	popular []*entities.CanonicalTest

	lastPopularLimit int
}

func (r *memTestRepo) SearchByName(ctx context.Context, query, department string, limit int) ([]*entities.CanonicalTest, error) {
	matched := []*entities.CanonicalTest{}
	for _, t := range r.tests {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(query)) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func (r *memTestRepo) GetByID(ctx context.Context, id int64) (*entities.CanonicalTest, error) {
	for _, t := range r.tests {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, apperrors.NewNotFoundError("test not found")
}

func (r *memTestRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entities.CanonicalTest, error) {
	result := []*entities.CanonicalTest{}
	for _, t := range r.tests {
		for _, id := range ids {
			if t.ID == id {
				result = append(result, t)
				break
			}
		}
	}
	return result, nil
}

func (r *memTestRepo) ListPopular(ctx context.Context, limit int) ([]*entities.CanonicalTest, error) {
	r.lastPopularLimit = limit
	if len(r.popular) > limit {
		return r.popular[:limit], nil
	}
	return r.popular, nil
}

type memOfferingRepo struct {
	offerings []*entities.TestOffering
	scanErr   error
}

func (r *memOfferingRepo) ListByTestIDs(ctx context.Context, testIDs []int64) ([]*entities.TestOffering, error) {
	result := []*entities.TestOffering{}
	for _, o := range r.offerings {
		if o.CanonicalTestID == nil {
			continue
		}
		for _, id := range testIDs {
			if *o.CanonicalTestID == id {
				result = append(result, o)
				break
			}
		}
	}
	return result, nil
}

func (r *memOfferingRepo) ScanByLocations(ctx context.Context, locationIDs []int64) ([]*entities.TestOffering, error) {
	return r.offerings, r.scanErr
}

func (r *memOfferingRepo) ListByLab(ctx context.Context, labID int64, locationIDs []int64, window int) ([]*entities.TestOffering, error) {
	result := []*entities.TestOffering{}
	for _, o := range r.offerings {
		if o.LabID == labID {
			result = append(result, o)
		}
	}
	return result, nil
}

type memLabRepo struct{ labs []*entities.Lab }

func (r *memLabRepo) GetBySlug(ctx context.Context, slug string) (*entities.Lab, error) {
	for _, l := range r.labs {
		if l.Slug == slug {
			return l, nil
		}
	}
	return nil, apperrors.NewNotFoundError("lab not found")
}

func (r *memLabRepo) List(ctx context.Context) ([]*entities.Lab, error) {
	return r.labs, nil
}

func (r *memLabRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Lab, error) {
	result := []*entities.Lab{}
	for _, l := range r.labs {
		for _, id := range ids {
			if l.ID == id {
				result = append(result, l)
				break
			}
		}
	}
	return result, nil
}

type memDepartmentRepo struct{ names []string }

func (r *memDepartmentRepo) ListNames(ctx context.Context) ([]string, error) {
	return r.names, nil
}

type memComparisonRepo struct{ rows []*entities.TestComparisonRow }

func (r *memComparisonRepo) ListByTest(ctx context.Context, testID int64, city string) ([]*entities.TestComparisonRow, error) {
	return r.rows, nil
}

func ptr[T any](v T) *T { return &v }
