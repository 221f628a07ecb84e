package services

import (
	"context"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
)

// ReferenceService serves the small reference listings backing filters and
// navigation: labs, cities and the canonical department taxonomy.
type ReferenceService struct {
	labRepo        repositories.LabRepository
	cityRepo       repositories.CityRepository
	departmentRepo repositories.DepartmentRepository
}

// NewReferenceService creates a new reference service
func NewReferenceService(
	labRepo repositories.LabRepository,
	cityRepo repositories.CityRepository,
	departmentRepo repositories.DepartmentRepository,
) *ReferenceService {
	return &ReferenceService{
		labRepo:        labRepo,
		cityRepo:       cityRepo,
		departmentRepo: departmentRepo,
	}
}

// Labs lists every lab chain
func (s *ReferenceService) Labs(ctx context.Context) ([]*entities.Lab, error) {
	return s.labRepo.List(ctx)
}

// Cities lists every city with at least one lab location
func (s *ReferenceService) Cities(ctx context.Context) ([]*entities.City, error) {
	return s.cityRepo.List(ctx)
}

// Departments lists the canonical department names
func (s *ReferenceService) Departments(ctx context.Context) ([]string, error) {
	return s.departmentRepo.ListNames(ctx)
}
