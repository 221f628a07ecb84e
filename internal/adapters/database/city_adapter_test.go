package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/pathlens/labtestcompare/backend/pkg/errors"
)

func newMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewClientFromDB(db), mock
}

func TestCityAdapter_GetByName(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewCityAdapter(client)

	mock.ExpectQuery(`SELECT (.+) FROM "cities" WHERE \("name" ILIKE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Mumbai"))

	city, err := adapter.GetByName(context.Background(), "mumbai")

	assert.NoError(t, err)
	assert.Equal(t, int64(7), city.ID)
	assert.Equal(t, "Mumbai", city.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCityAdapter_GetByName_NotFound(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewCityAdapter(client)

	mock.ExpectQuery(`SELECT (.+) FROM "cities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	city, err := adapter.GetByName(context.Background(), "Unknownville")

	assert.Nil(t, city)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLabLocationAdapter_ListIDsByCity(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewLabLocationAdapter(client)

	mock.ExpectQuery(`SELECT "id" FROM "lab_locations" WHERE \("city_id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11).AddRow(12).AddRow(13))

	ids, err := adapter.ListIDsByCity(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, []int64{11, 12, 13}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
