package body_metric

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MyelinBots/vitals-go/internal/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// utcTime matches a created_at argument stamped in UTC.
type utcTime struct{}

func (utcTime) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	return ok && ts.Location() == time.UTC
}

func TestLatestForUser(t *testing.T) {
	database, mock := dbtest.NewMockDB(t)
	repo := NewBodyMetricRepository(database)

	t.Run("newest record", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "body_metrics" WHERE user_id = \$1 ORDER BY id DESC`).
			WithArgs(3, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "bmi", "classification", "recommended_calories"}).
				AddRow(11, 3, 24.69, "Normal", 2076))

		rec, err := repo.LatestForUser(context.Background(), 3)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, uint(11), rec.ID)
		require.NotNil(t, rec.RecommendedCalories)
		assert.Equal(t, 2076, *rec.RecommendedCalories)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no records", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "body_metrics" WHERE user_id = \$1 ORDER BY id DESC`).
			WithArgs(4, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		rec, err := repo.LatestForUser(context.Background(), 4)
		require.NoError(t, err)
		assert.Nil(t, rec)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateRecord(t *testing.T) {
	database, mock := dbtest.NewMockDB(t)
	repo := NewBodyMetricRepository(database)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "body_metrics"`).
		WithArgs(utcTime{}, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectCommit()

	rec := &BodyMetric{UserID: 3, HeightM: 1.8, WeightKg: 80, BMI: 24.69, Classification: "Normal"}
	require.NoError(t, repo.CreateRecord(context.Background(), rec))
	assert.Equal(t, uint(12), rec.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
