package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

func TestReadingListPostgres_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM reading_lists l LEFT JOIN reading_list_items i").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "series_id"}).
			AddRow(9, "Later", nil).
			AddRow(8, "Favourites", 3).
			AddRow(8, "Favourites", 5))

	lists, err := NewReadingListPostgres(db).ListByUser(context.Background(), 1)
	require.NoError(t, err)

	want := []model.ReadingList{
		{ID: 9, UserID: 1, Name: "Later", Items: []model.ReadingListItem{}},
		{ID: 8, UserID: 1, Name: "Favourites", Items: []model.ReadingListItem{{SeriesID: 3}, {SeriesID: 5}}},
	}
	assert.Equal(t, want, lists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingListPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReadingListPostgres(db)

	mock.ExpectQuery("INSERT INTO reading_lists").
		WithArgs(int64(1), "Later").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectQuery("INSERT INTO reading_lists").
		WithArgs(int64(1), "Later").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_reading_list_user_name"})

	l, err := repo.Create(context.Background(), 1, "Later")
	require.NoError(t, err)
	assert.Equal(t, int64(4), l.ID)
	assert.NotNil(t, l.Items)

	_, err = repo.Create(context.Background(), 1, "Later")
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingListPostgres_Items(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReadingListPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id, user_id, name FROM reading_lists WHERE id = \\$1 AND user_id = \\$2").
		WithArgs(int64(4), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).AddRow(4, 1, "Later"))
	mock.ExpectExec("ON CONFLICT \\(list_id, series_id\\) DO NOTHING").
		WithArgs(int64(4), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM reading_list_items").
		WithArgs(int64(4), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM reading_lists").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	l, err := repo.FindOwned(ctx, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, "Later", l.Name)

	assert.NoError(t, repo.AddItem(ctx, 4, 3))
	assert.True(t, IsNoRowsError(repo.RemoveItem(ctx, 4, 3)))

	n, err := repo.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
