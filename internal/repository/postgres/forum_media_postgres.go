package postgres

import (
	"context"
	"database/sql"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

// ForumMediaPostgres is a PostgreSQL implementation of repository.ForumMediaRepository.
type ForumMediaPostgres struct {
	db *sql.DB
}

// NewForumMediaPostgres creates a new ForumMediaPostgres repository.
func NewForumMediaPostgres(db *sql.DB) *ForumMediaPostgres {
	return &ForumMediaPostgres{db: db}
}

var _ repository.ForumMediaRepository = (*ForumMediaPostgres)(nil)

// Create stores the metadata of an uploaded image.
func (r *ForumMediaPostgres) Create(ctx context.Context, m *model.ForumMedia) (*model.ForumMedia, error) {
	const q = `
		INSERT INTO forum_media (user_id, thread_id, post_id, url, mime_type, size_bytes, width, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	out := *m
	if err := r.db.QueryRowContext(ctx, q,
		nullInt64(m.UserID), m.ThreadID, nullInt64(m.PostID), m.URL, m.MimeType, m.SizeBytes,
		nullInt(m.Width), nullInt(m.Height),
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
