package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/poster-outreach/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestPostgresOpenOrCreate(t *testing.T) {
	db, mock := newMockDB(t)
	s := New(db, Postgres, func() error { return nil }, nil)

	mock.ExpectExec(Postgres.InsertSheet).WithArgs("posters").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(Postgres.CountRows).WithArgs("posters").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	h, created, err := s.OpenOrCreate(context.Background(), "posters")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, store.Handle{Name: "posters", Backend: "postgres"}, h)
}

func TestPostgresAppendAndRows(t *testing.T) {
	db, mock := newMockDB(t)
	s := New(db, Postgres, func() error { return nil }, nil)
	h := store.Handle{Name: "posters", Backend: "postgres"}

	mock.ExpectExec(Postgres.InsertRow).WithArgs("posters", `["2024-03-05 19:30:00","Jazz Night"]`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, s.AppendRow(context.Background(), h, []string{"2024-03-05 19:30:00", "Jazz Night"}))

	mock.ExpectQuery(Postgres.SheetExists).WithArgs("posters").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(Postgres.SelectRows).WithArgs("posters").
		WillReturnRows(sqlmock.NewRows([]string{"cells"}).
			AddRow(`["Timestamp","Event Name"]`).
			AddRow(`["2024-03-05 19:30:00","Jazz Night"]`))

	rows, err := s.Rows(context.Background(), h)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Jazz Night", rows[1][1])
	assert.Len(t, rows[1], 10)
}

func TestAppendErrorWrapped(t *testing.T) {
	db, mock := newMockDB(t)
	s := New(db, Postgres, func() error { return nil }, nil)

	mock.ExpectExec(Postgres.InsertRow).WillReturnError(errors.New("connection reset"))
	err := s.AppendRow(context.Background(), store.Handle{Name: "posters"}, []string{"x"})
	assert.ErrorContains(t, err, "insert row: connection reset")
}

func TestRowsUnknownSheet(t *testing.T) {
	db, mock := newMockDB(t)
	s := New(db, Postgres, func() error { return nil }, nil)

	mock.ExpectQuery(Postgres.SheetExists).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	_, err := s.Rows(context.Background(), store.Handle{Name: "nope"})
	assert.ErrorIs(t, err, store.ErrUnknownSheet)
}
