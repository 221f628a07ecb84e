package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

// LabAdapter implements LabRepository
type LabAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewLabAdapter creates a new lab adapter
func NewLabAdapter(client *postgres.Client) repositories.LabRepository {
	return &LabAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetBySlug retrieves a lab by its slug
func (a *LabAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Lab, error) {
	query, args, err := a.db.Select("id", "name", "slug", "website_url").
		From("labs").
		Where(goqu.Ex{"slug": slug}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build lab query", err)
	}

	lab := &entities.Lab{}
	var website sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&lab.ID, &lab.Name, &lab.Slug, &website)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("lab with slug %q not found", slug))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get lab", err)
	}
	if website.Valid {
		lab.WebsiteURL = &website.String
	}

	return lab, nil
}

// List retrieves all labs ordered by name
func (a *LabAdapter) List(ctx context.Context) ([]*entities.Lab, error) {
	query, args, err := a.db.Select("id", "name", "slug", "website_url").
		From("labs").
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build lab list query", err)
	}

	return a.queryLabs(ctx, query, args...)
}

// GetByIDs retrieves labs for a bounded id set
func (a *LabAdapter) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Lab, error) {
	if len(ids) == 0 {
		return []*entities.Lab{}, nil
	}

	query, args, err := a.db.Select("id", "name", "slug", "website_url").
		From("labs").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build lab query", err)
	}

	return a.queryLabs(ctx, query, args...)
}

func (a *LabAdapter) queryLabs(ctx context.Context, query string, args ...interface{}) ([]*entities.Lab, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query labs", err)
	}
	defer rows.Close()

	labs := []*entities.Lab{}
	for rows.Next() {
		lab := &entities.Lab{}
		var website sql.NullString
		if err := rows.Scan(&lab.ID, &lab.Name, &lab.Slug, &website); err != nil {
			return nil, apperrors.NewInternalError("failed to scan lab", err)
		}
		if website.Valid {
			lab.WebsiteURL = &website.String
		}
		labs = append(labs, lab)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating labs", err)
	}

	return labs, nil
}

// DepartmentAdapter implements DepartmentRepository
type DepartmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDepartmentAdapter creates a new department adapter
func NewDepartmentAdapter(client *postgres.Client) repositories.DepartmentRepository {
	return &DepartmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListNames retrieves the canonical department names ordered by name
func (a *DepartmentAdapter) ListNames(ctx context.Context) ([]string, error) {
	query, args, err := a.db.Select("name").
		From("departments").
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build department query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list departments", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.NewInternalError("failed to scan department", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating departments", err)
	}

	return names, nil
}
