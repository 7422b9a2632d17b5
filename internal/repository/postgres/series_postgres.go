package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

// SeriesPostgres is a PostgreSQL implementation of repository.SeriesRepository.
type SeriesPostgres struct {
	db *sql.DB
}

// NewSeriesPostgres creates a new SeriesPostgres repository.
func NewSeriesPostgres(db *sql.DB) *SeriesPostgres {
	return &SeriesPostgres{db: db}
}

var _ repository.SeriesRepository = (*SeriesPostgres)(nil)

const seriesColumns = `id, title, genre, type, author, artist, status, cover_url, vote_count`

func scanSeries(row scanner, extra ...any) (*model.Series, error) {
	var (
		s      model.Series
		typ    string
		status sql.NullString
	)
	dest := append([]any{&s.ID, &s.Title, &s.Genre, &typ, &s.Author, &s.Artist, &status, &s.CoverURL, &s.VoteCount}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	s.Type = model.SeriesType(typ)
	s.Status = seriesStatusPtr(status)
	return &s, nil
}

func seriesStatusPtr(ns sql.NullString) *model.SeriesStatus {
	if !ns.Valid {
		return nil
	}
	st := model.SeriesStatus(ns.String)
	return &st
}

func nullStatus(st *model.SeriesStatus) sql.NullString {
	if st == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*st), Valid: true}
}

// Create inserts a new series row and returns the stored record.
func (r *SeriesPostgres) Create(ctx context.Context, s *model.Series) (*model.Series, error) {
	const q = `
		INSERT INTO series (title, genre, type, author, artist, status, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + seriesColumns
	return scanSeries(r.db.QueryRowContext(ctx, q,
		s.Title, s.Genre, string(s.Type), s.Author, s.Artist, nullStatus(s.Status), s.CoverURL,
	))
}

// FindByID fetches a single series by its ID.
func (r *SeriesPostgres) FindByID(ctx context.Context, id int64) (*model.Series, error) {
	const q = `SELECT ` + seriesColumns + ` FROM series WHERE id = $1`
	return scanSeries(r.db.QueryRowContext(ctx, q, id))
}

// List returns every series ordered by id.
func (r *SeriesPostgres) List(ctx context.Context) ([]model.Series, error) {
	const q = `SELECT ` + seriesColumns + ` FROM series ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Series, 0)
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

// Update overwrites the editable columns and returns the stored record.
func (r *SeriesPostgres) Update(ctx context.Context, s *model.Series) (*model.Series, error) {
	const q = `
		UPDATE series
		SET title = $2, genre = $3, type = $4, author = $5, artist = $6, status = $7, cover_url = $8
		WHERE id = $1
		RETURNING ` + seriesColumns
	return scanSeries(r.db.QueryRowContext(ctx, q,
		s.ID, s.Title, s.Genre, string(s.Type), s.Author, s.Artist, nullStatus(s.Status), s.CoverURL,
	))
}

// Delete removes a series; details, votes and list items cascade.
func (r *SeriesPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM series WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListWithDetails joins each matching series with its optional detail row.
func (r *SeriesPostgres) ListWithDetails(ctx context.Context, f repository.SeriesFilter) ([]repository.SeriesWithDetail, error) {
	var (
		where []string
		args  []any
	)
	if f.Type != nil {
		args = append(args, string(*f.Type))
		where = append(where, fmt.Sprintf("s.type = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(s.title ILIKE $%[1]d OR s.genre ILIKE $%[1]d OR s.type ILIKE $%[1]d OR s.author ILIKE $%[1]d OR s.artist ILIKE $%[1]d OR COALESCE(s.status, '') ILIKE $%[1]d)", n))
	}

	q := `
		SELECT s.id, s.title, s.genre, s.type, s.author, s.artist, s.status, s.cover_url, s.vote_count,
		       d.id, d.synopsis, d.series_cover_url,
		       d.story_total, d.story_count, d.characters_total, d.characters_count,
		       d.worldbuilding_total, d.worldbuilding_count, d.art_total, d.art_count,
		       d.drama_or_fight_total, d.drama_or_fight_count
		FROM series s
		LEFT JOIN series_details d ON d.series_id = s.id`
	if len(where) > 0 {
		q += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	q += "\n\t\tORDER BY s.id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.SeriesWithDetail, 0)
	for rows.Next() {
		var (
			detailID        sql.NullInt64
			synopsis, cover sql.NullString
			tallies         [10]sql.NullInt64
		)
		extra := []any{&detailID, &synopsis, &cover}
		for i := range tallies {
			extra = append(extra, &tallies[i])
		}
		s, err := scanSeries(rows, extra...)
		if err != nil {
			return nil, err
		}
		item := repository.SeriesWithDetail{Series: *s}
		if detailID.Valid {
			item.Detail = &model.SeriesDetail{
				ID:                 detailID.Int64,
				SeriesID:           s.ID,
				Synopsis:           synopsis.String,
				CoverURL:           cover.String,
				StoryTotal:         int(tallies[0].Int64),
				StoryCount:         int(tallies[1].Int64),
				CharactersTotal:    int(tallies[2].Int64),
				CharactersCount:    int(tallies[3].Int64),
				WorldBuildingTotal: int(tallies[4].Int64),
				WorldBuildingCount: int(tallies[5].Int64),
				ArtTotal:           int(tallies[6].Int64),
				ArtCount:           int(tallies[7].Int64),
				DramaOrFightTotal:  int(tallies[8].Int64),
				DramaOrFightCount:  int(tallies[9].Int64),
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// SearchRefs returns up to limit series whose title contains q.
func (r *SeriesPostgres) SearchRefs(ctx context.Context, q string, limit int) ([]model.SeriesRef, error) {
	const query = `
		SELECT id, title, cover_url, type, status
		FROM series
		WHERE title ILIKE $1
		ORDER BY id
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, "%"+q+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeriesRefs(rows)
}

func scanSeriesRefs(rows *sql.Rows) ([]model.SeriesRef, error) {
	refs := make([]model.SeriesRef, 0)
	for rows.Next() {
		var (
			ref    model.SeriesRef
			typ    string
			status sql.NullString
		)
		if err := rows.Scan(&ref.SeriesID, &ref.Title, &ref.CoverURL, &typ, &status); err != nil {
			return nil, err
		}
		ref.Type = model.SeriesType(typ)
		ref.Status = seriesStatusPtr(status)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
