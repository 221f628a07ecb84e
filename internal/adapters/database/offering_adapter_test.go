package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

var offeringColumns = []string{"id", "canonical_test_id", "lab_id", "lab_location_id", "price", "department_raw"}

// ScanByLocations keeps paging until a short page signals exhaustion
func TestOfferingAdapter_ScanByLocations_PagesUntilExhaustion(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewOfferingAdapter(client, 2, nil)

	mock.ExpectQuery(`SELECT (.+) FROM "lab_tests" (.+) LIMIT 2$`).
		WillReturnRows(sqlmock.NewRows(offeringColumns).
			AddRow(1, 100, 1, 11, 300.0, "Haematology").
			AddRow(2, 101, 1, 11, 450.0, "Biochemistry"))
	mock.ExpectQuery(`SELECT (.+) FROM "lab_tests" (.+) OFFSET 2`).
		WillReturnRows(sqlmock.NewRows(offeringColumns).
			AddRow(3, 102, 2, 12, 500.0, "Serology"))

	offerings, err := adapter.ScanByLocations(context.Background(), []int64{11, 12})

	assert.NoError(t, err)
	assert.Len(t, offerings, 3)
	assert.Equal(t, int64(100), *offerings[0].CanonicalTestID)
	assert.Equal(t, "Serology", offerings[2].DepartmentRaw)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A page count that exactly fills the last page needs a trailing empty page
func TestOfferingAdapter_ScanByLocations_ExactPageBoundary(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewOfferingAdapter(client, 2, nil)

	mock.ExpectQuery(`SELECT (.+) FROM "lab_tests" (.+) LIMIT 2$`).
		WillReturnRows(sqlmock.NewRows(offeringColumns).
			AddRow(1, 100, 1, 11, 300.0, "").
			AddRow(2, 101, 1, 11, 450.0, ""))
	mock.ExpectQuery(`SELECT (.+) FROM "lab_tests" (.+) OFFSET 2`).
		WillReturnRows(sqlmock.NewRows(offeringColumns))

	offerings, err := adapter.ScanByLocations(context.Background(), []int64{11})

	assert.NoError(t, err)
	assert.Len(t, offerings, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A mid-scan failure surfaces as a partial fetch carrying the pages that
// already arrived, so aggregations can degrade instead of failing outright
func TestOfferingAdapter_ScanByLocations_MidScanFailureIsPartialFetch(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewOfferingAdapter(client, 2, nil)

	mock.ExpectQuery(`SELECT (.+) FROM "lab_tests" (.+) LIMIT 2$`).
		WillReturnRows(sqlmock.NewRows(offeringColumns).
			AddRow(1, 100, 1, 11, 300.0, "Haematology").
			AddRow(2, 101, 1, 11, 450.0, "Biochemistry"))
	mock.ExpectQuery(`SELECT (.+) FROM "lab_tests" (.+) OFFSET 2`).
		WillReturnError(errors.New("connection reset"))

	offerings, err := adapter.ScanByLocations(context.Background(), []int64{11})

	assert.True(t, apperrors.IsPartialFetch(err))
	assert.Len(t, offerings, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferingAdapter_ScanByLocations_NoLocations(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewOfferingAdapter(client, 1000, nil)

	offerings, err := adapter.ScanByLocations(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, offerings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferingAdapter_ListByTestIDs_EmptyInput(t *testing.T) {
	client, _ := newMockClient(t)
	adapter := NewOfferingAdapter(client, 1000, nil)

	offerings, err := adapter.ListByTestIDs(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, offerings)
}
