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

// TestAdapter implements TestRepository over the canonical test catalog
type TestAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTestAdapter creates a new canonical test adapter
func NewTestAdapter(client *postgres.Client) repositories.TestRepository {
	return &TestAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *TestAdapter) baseSelect() *goqu.SelectDataset {
	return a.db.Select(
		"canonical_tests.id",
		"canonical_tests.name",
		"canonical_tests.slug",
		"canonical_tests.department_id",
		"canonical_tests.test_type",
		"canonical_tests.is_popular",
		goqu.I("departments.id").As("dept_id"),
		goqu.I("departments.name").As("dept_name"),
	).From("canonical_tests").
		LeftJoin(
			goqu.T("departments"),
			goqu.On(goqu.I("canonical_tests.department_id").Eq(goqu.I("departments.id"))),
		)
}

// SearchByName matches tests by case-insensitive substring. Substring is the
// only matching strategy; ranking happens downstream on lab coverage.
func (a *TestAdapter) SearchByName(ctx context.Context, query, department string, limit int) ([]*entities.CanonicalTest, error) {
	ds := a.baseSelect().
		Where(goqu.I("canonical_tests.name").ILike(fmt.Sprintf("%%%s%%", query)))

	if department != "" {
		ds = ds.Where(goqu.I("departments.name").Eq(department))
	}
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build test search query", err)
	}

	return a.queryTests(ctx, sqlStr, args...)
}

// GetByID retrieves one test with its joined department
func (a *TestAdapter) GetByID(ctx context.Context, id int64) (*entities.CanonicalTest, error) {
	sqlStr, args, err := a.baseSelect().
		Where(goqu.I("canonical_tests.id").Eq(id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build test query", err)
	}

	tests, err := a.queryTests(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	if len(tests) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("test with id %d not found", id))
	}
	return tests[0], nil
}

// GetByIDs resolves tests for a bounded id set with joined departments
func (a *TestAdapter) GetByIDs(ctx context.Context, ids []int64) ([]*entities.CanonicalTest, error) {
	if len(ids) == 0 {
		return []*entities.CanonicalTest{}, nil
	}

	sqlStr, args, err := a.baseSelect().
		Where(goqu.Ex{"canonical_tests.id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build test lookup query", err)
	}

	return a.queryTests(ctx, sqlStr, args...)
}

// ListPopular returns curated tests flagged is_popular
func (a *TestAdapter) ListPopular(ctx context.Context, limit int) ([]*entities.CanonicalTest, error) {
	ds := a.baseSelect().Where(goqu.I("canonical_tests.is_popular").IsTrue())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build popular tests query", err)
	}

	return a.queryTests(ctx, sqlStr, args...)
}

func (a *TestAdapter) queryTests(ctx context.Context, query string, args ...interface{}) ([]*entities.CanonicalTest, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query tests", err)
	}
	defer rows.Close()

	tests := []*entities.CanonicalTest{}
	for rows.Next() {
		test := &entities.CanonicalTest{}
		var departmentID, deptID sql.NullInt64
		var testType, deptName sql.NullString

		err := rows.Scan(
			&test.ID,
			&test.Name,
			&test.Slug,
			&departmentID,
			&testType,
			&test.IsPopular,
			&deptID,
			&deptName,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan test", err)
		}

		if departmentID.Valid {
			test.DepartmentID = &departmentID.Int64
		}
		if testType.Valid {
			test.TestType = &testType.String
		}
		if deptName.Valid {
			test.Department = entities.OneDepartment(&entities.Department{
				ID:   deptID.Int64,
				Name: deptName.String,
			})
		}

		tests = append(tests, test)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating tests", err)
	}

	return tests, nil
}
