package services

import (
	"context"
	"sort"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
	"github.com/pathlens/labtestcompare/backend/pkg/utils"
)

// AvailabilityService builds the department-by-lab availability matrix
type AvailabilityService struct {
	labRepo        repositories.LabRepository
	departmentRepo repositories.DepartmentRepository
	offeringRepo   repositories.OfferingRepository
	resolver       *LocationResolver
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	labRepo repositories.LabRepository,
	departmentRepo repositories.DepartmentRepository,
	offeringRepo repositories.OfferingRepository,
	resolver *LocationResolver,
) *AvailabilityService {
	return &AvailabilityService{
		labRepo:        labRepo,
		departmentRepo: departmentRepo,
		offeringRepo:   offeringRepo,
		resolver:       resolver,
	}
}

// Availability counts, per department and lab, the distinct tests offered
// in the requested city. Raw department labels are normalized against the
// canonical taxonomy; labels the normalizer rejects as noise contribute
// nothing. A partial scan yields counts over the rows that arrived plus
// the partial-fetch error.
func (s *AvailabilityService) Availability(ctx context.Context, city string) ([]*entities.AvailabilityEntry, error) {
	locationIDs, ok, err := s.resolver.Resolve(ctx, city)
	if err != nil {
		return nil, err
	}
	if !ok || len(locationIDs) == 0 {
		return []*entities.AvailabilityEntry{}, nil
	}

	offerings, scanErr := s.offeringRepo.ScanByLocations(ctx, locationIDs)
	if scanErr != nil && !apperrors.IsPartialFetch(scanErr) {
		return nil, scanErr
	}

	// The taxonomy is read fresh so one pass normalizes against a single
	// consistent snapshot.
	names, err := s.departmentRepo.ListNames(ctx)
	if err != nil {
		return nil, err
	}
	normalizer := utils.NewDepartmentNormalizer(names)

	labs, err := s.labRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	slugByLab := make(map[int64]string, len(labs))
	for _, l := range labs {
		slugByLab[l.ID] = l.Slug
	}

	type cell struct {
		department string
		labSlug    string
	}
	counts := make(map[cell]map[int64]struct{})
	for _, o := range offerings {
		if o.CanonicalTestID == nil {
			continue
		}
		slug, known := slugByLab[o.LabID]
		if !known {
			continue
		}
		department, keep := normalizer.Normalize(o.DepartmentRaw)
		if !keep {
			continue
		}

		key := cell{department: department, labSlug: slug}
		if counts[key] == nil {
			counts[key] = make(map[int64]struct{})
		}
		counts[key][*o.CanonicalTestID] = struct{}{}
	}

	entries := make([]*entities.AvailabilityEntry, 0, len(counts))
	for key, testSet := range counts {
		entries = append(entries, &entities.AvailabilityEntry{
			Department: key.department,
			LabSlug:    key.labSlug,
			TestCount:  len(testSet),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Department != entries[j].Department {
			return entries[i].Department < entries[j].Department
		}
		return entries[i].LabSlug < entries[j].LabSlug
	})
	return entries, scanErr
}
