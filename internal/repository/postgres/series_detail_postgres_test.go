package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

var detailCols = []string{"id", "series_id", "synopsis", "series_cover_url",
	"story_total", "story_count", "characters_total", "characters_count",
	"worldbuilding_total", "worldbuilding_count", "art_total", "art_count",
	"drama_or_fight_total", "drama_or_fight_count"}

func TestSeriesDetailPostgres_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO series_details (.+) ON CONFLICT \\(series_id\\) DO UPDATE").
		WithArgs(int64(4), "syn", "https://cdn/c.png").
		WillReturnRows(sqlmock.NewRows(detailCols).AddRow(1, 4, "syn", "https://cdn/c.png", 0, 0, 0, 0, 0, 0, 0, 0, 0, 0))

	d, err := NewSeriesDetailPostgres(db).Upsert(context.Background(), 4, "syn", "https://cdn/c.png")
	require.NoError(t, err)
	assert.Equal(t, "syn", d.Synopsis)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeriesDetailPostgres_ApplyVote(t *testing.T) {
	vote := model.Vote{UserID: 2, SeriesID: 4, Category: model.CategoryWorldBuilding, Score: 9}

	t.Run("first vote bumps vote_count", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM series_details WHERE series_id = \\$1 FOR UPDATE").
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(2), int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("INSERT INTO user_votes").
			WithArgs(int64(2), int64(4), "World Building", 9).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SET worldbuilding_total = worldbuilding_total \\+ \\$2, worldbuilding_count = worldbuilding_count \\+ 1").
			WithArgs(int64(11), 9).
			WillReturnRows(sqlmock.NewRows(detailCols).AddRow(11, 4, "", "", 0, 0, 0, 0, 9, 1, 0, 0, 0, 0))
		mock.ExpectExec("UPDATE series SET vote_count = vote_count \\+ 1").
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		d, err := NewSeriesDetailPostgres(db).ApplyVote(context.Background(), vote)
		require.NoError(t, err)
		assert.Equal(t, 9, d.WorldBuildingTotal)
		assert.Equal(t, 1, d.WorldBuildingCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("later vote leaves vote_count", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec("INSERT INTO user_votes").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("UPDATE series_details").
			WillReturnRows(sqlmock.NewRows(detailCols).AddRow(11, 4, "", "", 0, 0, 0, 0, 18, 2, 0, 0, 0, 0))
		mock.ExpectCommit()

		_, err = NewSeriesDetailPostgres(db).ApplyVote(context.Background(), vote)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat vote is a conflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec("INSERT INTO user_votes").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		d, err := NewSeriesDetailPostgres(db).ApplyVote(context.Background(), vote)
		assert.Nil(t, d)
		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing detail", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err = NewSeriesDetailPostgres(db).ApplyVote(context.Background(), vote)
		assert.True(t, IsNoRowsError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown category never reaches the database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = NewSeriesDetailPostgres(db).ApplyVote(context.Background(), model.Vote{Category: "Plot; DROP TABLE"})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSeriesDetailPostgres_Stats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSeriesDetailPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT category, score FROM user_votes").
		WithArgs(int64(1), int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"category", "score"}).AddRow("Story", 7).AddRow("Art", 10))
	mock.ExpectQuery("COUNT\\(DISTINCT user_id\\)").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).AddRow("Story", 3))
	mock.ExpectQuery("COUNT\\(DISTINCT user_id\\)").
		WithArgs(int64(5)).
		WillReturnError(errors.New("boom"))

	scores, err := repo.UserScores(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, map[model.Category]int{model.CategoryStory: 7, model.CategoryArt: 10}, scores)

	voters, err := repo.CategoryVoters(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, voters[model.CategoryStory])

	_, err = repo.CategoryVoters(ctx, 5)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
