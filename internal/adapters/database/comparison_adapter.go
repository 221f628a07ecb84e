package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/pathlens/labtestcompare/backend/internal/domain/entities"
	"github.com/pathlens/labtestcompare/backend/internal/domain/repositories"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

// ComparisonAdapter implements ComparisonRepository over the precomputed
// test_comparison join view.
type ComparisonAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewComparisonAdapter creates a new comparison adapter
func NewComparisonAdapter(client *postgres.Client) repositories.ComparisonRepository {
	return &ComparisonAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListByTest returns comparison rows for one canonical test ordered by
// ascending price, optionally filtered to a city name.
func (a *ComparisonAdapter) ListByTest(ctx context.Context, testID int64, city string) ([]*entities.TestComparisonRow, error) {
	ds := a.db.Select(
		"canonical_test_id", "test_name", "test_type", "department", "city",
		"lab_name", "lab_slug", "price", "mrp", "discount_pct",
		"tat_hours", "tat_text", "home_collection", "nabl_accredited",
		"match_confidence", "methodology", "sample_type",
	).From("test_comparison").
		Where(goqu.Ex{"canonical_test_id": testID}).
		Order(goqu.I("price").Asc())

	if city != "" {
		ds = ds.Where(goqu.Ex{"city": city})
	}

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build comparison query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query comparison rows", err)
	}
	defer rows.Close()

	result := []*entities.TestComparisonRow{}
	for rows.Next() {
		row := &entities.TestComparisonRow{}
		var (
			testType, department, rowCity, tatText, methodology, sampleType sql.NullString
			price, mrp, discountPct, matchConfidence                     sql.NullFloat64
			tatHours                                                     sql.NullInt64
			homeCollection, nablAccredited                               sql.NullBool
		)

		err := rows.Scan(
			&row.CanonicalTestID,
			&row.TestName,
			&testType,
			&department,
			&rowCity,
			&row.LabName,
			&row.LabSlug,
			&price,
			&mrp,
			&discountPct,
			&tatHours,
			&tatText,
			&homeCollection,
			&nablAccredited,
			&matchConfidence,
			&methodology,
			&sampleType,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan comparison row", err)
		}

		row.TestType = nullableString(testType)
		row.Department = nullableString(department)
		row.City = nullableString(rowCity)
		row.TATText = nullableString(tatText)
		row.Methodology = nullableString(methodology)
		row.SampleType = nullableString(sampleType)
		row.Price = nullableFloat(price)
		row.MRP = nullableFloat(mrp)
		row.DiscountPct = nullableFloat(discountPct)
		row.MatchConfidence = nullableFloat(matchConfidence)
		if tatHours.Valid {
			h := int(tatHours.Int64)
			row.TATHours = &h
		}
		row.HomeCollection = nullableBool(homeCollection)
		row.NABLAccredited = nullableBool(nablAccredited)

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating comparison rows", err)
	}

	return result, nil
}

func nullableString(v sql.NullString) *string {
	if v.Valid {
		return &v.String
	}
	return nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if v.Valid {
		return &v.Float64
	}
	return nil
}

func nullableBool(v sql.NullBool) *bool {
	if v.Valid {
		return &v.Bool
	}
	return nil
}
