package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

// CityAdapter implements CityRepository
type CityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCityAdapter creates a new city adapter
func NewCityAdapter(client *postgres.Client) repositories.CityRepository {
	return &CityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByName matches a city by case-insensitive exact name. ILIKE without
// wildcards gives the case-insensitive equality the city filter needs;
// limit 1 takes the first row when names are duplicated.
func (a *CityAdapter) GetByName(ctx context.Context, name string) (*entities.City, error) {
	query, args, err := a.db.Select("id", "name").
		From("cities").
		Where(goqu.I("name").ILike(name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build city query", err)
	}

	city := &entities.City{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&city.ID, &city.Name)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("city %q not found", name))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get city", err)
	}

	return city, nil
}

// List retrieves all cities ordered by name
func (a *CityAdapter) List(ctx context.Context) ([]*entities.City, error) {
	query, args, err := a.db.Select("id", "name").
		From("cities").
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build city list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list cities", err)
	}
	defer rows.Close()

	cities := []*entities.City{}
	for rows.Next() {
		city := &entities.City{}
		if err := rows.Scan(&city.ID, &city.Name); err != nil {
			return nil, apperrors.NewInternalError("failed to scan city", err)
		}
		cities = append(cities, city)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating cities", err)
	}

	return cities, nil
}

// LabLocationAdapter implements LabLocationRepository
type LabLocationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewLabLocationAdapter creates a new lab location adapter
func NewLabLocationAdapter(client *postgres.Client) repositories.LabLocationRepository {
	return &LabLocationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListIDsByCity returns every lab_location id in the given city
func (a *LabLocationAdapter) ListIDsByCity(ctx context.Context, cityID int64) ([]int64, error) {
	query, args, err := a.db.Select("id").
		From("lab_locations").
		Where(goqu.Ex{"city_id": cityID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build location query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list lab locations", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan lab location", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating lab locations", err)
	}

	return ids, nil
}
