package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/clients/postgres"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/observability"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

// OfferingAdapter implements OfferingRepository over the lab_tests fact
// table. The store caps every request at pageSize rows, so full scans page
// in fixed steps (see fetchAllPages).
type OfferingAdapter struct {
	client   *postgres.Client
	db       *goqu.Database
	pageSize int
	metrics  *observability.Metrics
}

// NewOfferingAdapter creates a new offering adapter. metrics may be nil.
func NewOfferingAdapter(client *postgres.Client, pageSize int, metrics *observability.Metrics) repositories.OfferingRepository {
	return &OfferingAdapter{
		client:   client,
		db:       goqu.New("postgres", client.DB()),
		pageSize: pageSize,
		metrics:  metrics,
	}
}

// ListByTestIDs returns active, positively priced offerings linked to the
// given canonical tests.
func (a *OfferingAdapter) ListByTestIDs(ctx context.Context, testIDs []int64) ([]*entities.TestOffering, error) {
	if len(testIDs) == 0 {
		return []*entities.TestOffering{}, nil
	}

	sqlStr, args, err := a.db.Select("id", "canonical_test_id", "lab_id", "lab_location_id", "price", "department_raw").
		From("lab_tests").
		Where(
			goqu.Ex{"canonical_test_id": testIDs, "is_active": true},
			goqu.I("price").Gt(0),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build offering query", err)
	}

	return a.queryOfferings(ctx, sqlStr, args...)
}

// ScanByLocations pages through every active, test-linked offering at the
// given locations. Rows are ordered by id so successive offset ranges form
// a consistent scan.
func (a *OfferingAdapter) ScanByLocations(ctx context.Context, locationIDs []int64) ([]*entities.TestOffering, error) {
	if len(locationIDs) == 0 {
		return []*entities.TestOffering{}, nil
	}

	offerings, err := fetchAllPages(a.pageSize, func(offset, limit int) ([]*entities.TestOffering, error) {
		ds := a.db.Select("id", "canonical_test_id", "lab_id", "lab_location_id", "price", "department_raw").
			From("lab_tests").
			Where(
				goqu.Ex{"lab_location_id": locationIDs, "is_active": true},
				goqu.I("canonical_test_id").IsNotNull(),
			).
			Order(goqu.I("id").Asc()).
			Limit(uint(limit))
		if offset > 0 {
			ds = ds.Offset(uint(offset))
		}
		sqlStr, args, err := ds.ToSQL()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to build offering scan query", err)
		}

		page, err := a.queryOfferings(ctx, sqlStr, args...)
		if err == nil && a.metrics != nil {
			a.metrics.ScanPageCount.Add(ctx, 1)
		}
		return page, err
	})
	if err != nil {
		// Hand back what arrived; callers aggregate over the partial scan
		return offerings, apperrors.NewPartialFetchError("offering scan truncated", err)
	}
	return offerings, nil
}

// ListByLab returns up to window active, positively priced, test-linked
// offerings for one lab, optionally restricted to locationIDs.
func (a *OfferingAdapter) ListByLab(ctx context.Context, labID int64, locationIDs []int64, window int) ([]*entities.TestOffering, error) {
	ds := a.db.Select("id", "canonical_test_id", "lab_id", "lab_location_id", "price", "department_raw").
		From("lab_tests").
		Where(
			goqu.Ex{"lab_id": labID, "is_active": true},
			goqu.I("price").Gt(0),
			goqu.I("canonical_test_id").IsNotNull(),
		)

	if len(locationIDs) > 0 {
		ds = ds.Where(goqu.Ex{"lab_location_id": locationIDs})
	}
	if window > 0 {
		ds = ds.Limit(uint(window))
	}

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build lab offering query", err)
	}

	return a.queryOfferings(ctx, sqlStr, args...)
}

func (a *OfferingAdapter) queryOfferings(ctx context.Context, query string, args ...interface{}) ([]*entities.TestOffering, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query offerings", err)
	}
	defer rows.Close()

	offerings := []*entities.TestOffering{}
	for rows.Next() {
		// Every offering query filters is_active = true
		o := &entities.TestOffering{IsActive: true}
		var canonicalTestID sql.NullInt64
		var departmentRaw sql.NullString

		err := rows.Scan(
			&o.ID,
			&canonicalTestID,
			&o.LabID,
			&o.LabLocationID,
			&o.Price,
			&departmentRaw,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan offering", err)
		}

		if canonicalTestID.Valid {
			o.CanonicalTestID = &canonicalTestID.Int64
		}
		o.DepartmentRaw = departmentRaw.String

		offerings = append(offerings, o)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating offerings", err)
	}

	return offerings, nil
}
