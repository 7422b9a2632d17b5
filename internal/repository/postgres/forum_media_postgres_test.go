package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/model"
)

func TestForumMediaPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	uid := int64(1)
	w, h := 64, 32

	mock.ExpectQuery("INSERT INTO forum_media").
		WithArgs(int64(1), int64(5), nil, "https://cdn/forum/media/a.png", "image/png", 1200, int64(64), int64(32)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, now))

	m, err := NewForumMediaPostgres(db).Create(context.Background(), &model.ForumMedia{
		UserID: &uid, ThreadID: 5, URL: "https://cdn/forum/media/a.png",
		MimeType: "image/png", SizeBytes: 1200, Width: &w, Height: &h,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), m.ID)
	assert.Equal(t, 64, *m.Width)
	assert.NoError(t, mock.ExpectationsWereMet())
}
