package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

var seriesCols = []string{"id", "title", "genre", "type", "author", "artist", "status", "cover_url", "vote_count"}

func TestSeriesPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSeriesPostgres(db)
	status := model.StatusOngoing

	mock.ExpectQuery("INSERT INTO series").
		WithArgs("Solo", "Action", "MANHWA", "Chugong", "Dubu", "ONGOING", "https://cdn/x.png").
		WillReturnRows(sqlmock.NewRows(seriesCols).
			AddRow(1, "Solo", "Action", "MANHWA", "Chugong", "Dubu", "ONGOING", "https://cdn/x.png", 0))

	s, err := repo.Create(context.Background(), &model.Series{
		Title: "Solo", Genre: "Action", Type: model.SeriesManhwa,
		Author: "Chugong", Artist: "Dubu", Status: &status, CoverURL: "https://cdn/x.png",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ID)
	require.NotNil(t, s.Status)
	assert.Equal(t, model.StatusOngoing, *s.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeriesPostgres_FindByID_NullStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSeriesPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM series WHERE id = ?").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(seriesCols).AddRow(2, "T", "G", "MANGA", "A", "B", nil, "", 4))

	s, err := repo.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, s.Status)
	assert.Equal(t, model.SeriesManga, s.Type)
	assert.Equal(t, 4, s.VoteCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeriesPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSeriesPostgres(db)

	mock.ExpectExec("DELETE FROM series WHERE id = ?").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM series WHERE id = ?").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 1))
	assert.ErrorIs(t, repo.Delete(context.Background(), 9), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeriesPostgres_ListWithDetails(t *testing.T) {
	cols := append(append([]string{}, seriesCols...),
		"d_id", "synopsis", "series_cover_url",
		"story_total", "story_count", "characters_total", "characters_count",
		"worldbuilding_total", "worldbuilding_count", "art_total", "art_count",
		"drama_or_fight_total", "drama_or_fight_count")

	t.Run("no filter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM series s LEFT JOIN series_details d ON d.series_id = s.id ORDER BY s.id`).
			WithoutArgs().
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(1, "A", "G", "MANGA", "", "", nil, "", 1, 10, "syn", "c", 8, 1, 0, 0, 0, 0, 0, 0, 0, 0).
				AddRow(2, "B", "G", "MANHUA", "", "", "HIATUS", "", 0, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil))

		items, err := NewSeriesPostgres(db).ListWithDetails(context.Background(), repository.SeriesFilter{})
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.NotNil(t, items[0].Detail)
		assert.Equal(t, int64(10), items[0].Detail.ID)
		assert.Equal(t, int64(1), items[0].Detail.SeriesID)
		assert.Equal(t, 8, items[0].Detail.StoryTotal)
		assert.Equal(t, 1, items[0].Detail.StoryCount)
		assert.Nil(t, items[1].Detail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("type and query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		typ := model.SeriesManhwa
		mock.ExpectQuery(`WHERE s.type = \$1 AND \(s.title ILIKE \$2 OR`).
			WithArgs("MANHWA", "%solo%").
			WillReturnRows(sqlmock.NewRows(cols))

		items, err := NewSeriesPostgres(db).ListWithDetails(context.Background(), repository.SeriesFilter{Type: &typ, Query: " solo "})
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSeriesPostgres_SearchRefs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, title, cover_url, type, status FROM series WHERE title ILIKE").
		WithArgs("%one%", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "cover_url", "type", "status"}).
			AddRow(3, "One Piece", "u", "MANGA", "ONGOING"))

	refs, err := NewSeriesPostgres(db).SearchRefs(context.Background(), "one", 10)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, int64(3), refs[0].SeriesID)
	assert.Equal(t, model.StatusOngoing, *refs[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
