package services

import (
	"context"

	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

// LocationResolver turns a city name into the set of lab location IDs that
// scopes city-filtered aggregations.
type LocationResolver struct {
	cityRepo     repositories.CityRepository
	locationRepo repositories.LabLocationRepository
}

// NewLocationResolver creates a new location resolver
func NewLocationResolver(cityRepo repositories.CityRepository, locationRepo repositories.LabLocationRepository) *LocationResolver {
	return &LocationResolver{
		cityRepo:     cityRepo,
		locationRepo: locationRepo,
	}
}

// Resolve maps a city name to its lab location IDs.
//
// ids is nil when no filter applies: either no city was requested, or the
// name matched no known city. ok distinguishes the two; it is false only
// when a non-empty name resolved to nothing. Search-style callers ignore
// ok and carry on unfiltered, strict callers return an empty result.
func (r *LocationResolver) Resolve(ctx context.Context, city string) (ids []int64, ok bool, err error) {
	if city == "" {
		return nil, true, nil
	}

	c, err := r.cityRepo.GetByName(ctx, city)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	locationIDs, err := r.locationRepo.ListIDsByCity(ctx, c.ID)
	if err != nil {
		return nil, false, err
	}
	if locationIDs == nil {
		locationIDs = []int64{}
	}
	return locationIDs, true, nil
}
