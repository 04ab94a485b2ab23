package upstream

import (
	"context"
	"errors"
	"testing"

	"cache-service/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newSQLiteUpstream(t *testing.T) *SQL {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	s := NewSQL(db)
	require.NoError(t, s.Migrate())
	return s
}

func TestSQL_RoundTrip(t *testing.T) {
	s := newSQLiteUpstream(t)
	ctx := context.Background()
	require.NoError(t, s.Import(ctx, testRecords()))

	t.Run("FetchVintage", func(t *testing.T) {
		v, found, err := s.FetchVintage(ctx, "7")
		require.NoError(t, err)
		assert.True(t, found)
		assert.JSONEq(t, `{"id":"7","title":"Chateau X 2015","rating":90}`, string(v.Raw))

		_, found, err = s.FetchVintage(ctx, "999")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("FetchVintages", func(t *testing.T) {
		got, err := s.FetchVintages(ctx, []string{"7", "8", "999"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Contains(t, got, "7")
		assert.Contains(t, got, "8")
	})

	t.Run("FetchWineVintageIndex", func(t *testing.T) {
		ids, found, err := s.FetchWineVintageIndex(ctx, "3")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []string{"7", "10"}, ids, "ids are ordered numerically")

		_, found, err = s.FetchWineVintageIndex(ctx, "999")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("ImportReplaces", func(t *testing.T) {
		records := testRecords()[:1]
		records[0].Payload = []byte(`{"id":"7","title":"Renamed"}`)
		require.NoError(t, s.Import(ctx, records))

		v, _, err := s.FetchVintage(ctx, "7")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"7","title":"Renamed"}`, string(v.Raw))
	})

	t.Run("Check", func(t *testing.T) {
		missing, err := s.Check()
		require.NoError(t, err)
		assert.Empty(t, missing)
	})
}

func TestSQL_FailuresAreUnavailable(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)
	s := NewSQL(db)

	mock.ExpectQuery("SELECT \\* FROM `vintages` WHERE id = \\?").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectQuery("SELECT \\* FROM `vintages` WHERE id IN \\(\\?,\\?\\)").
		WithArgs("7", "8").
		WillReturnError(errors.New("connection reset"))

	_, found, err := s.FetchVintage(context.Background(), "7")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, found)

	_, err = s.FetchVintages(context.Background(), []string{"7", "8"})
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQL_FetchVintagesMySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `vintages` WHERE id IN \\(\\?,\\?\\)").
		WithArgs("7", "999").
		WillReturnRows(sqlmock.NewRows([]string{"id", "wine_id", "payload"}).
			AddRow("7", "3", `{"title":"X"}`))

	got, err := NewSQL(db).FetchVintages(context.Background(), []string{"7", "999"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, `{"title":"X"}`, string(got["7"].Raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}
