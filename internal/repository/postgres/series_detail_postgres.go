package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

// SeriesDetailPostgres is a PostgreSQL implementation of repository.SeriesDetailRepository.
type SeriesDetailPostgres struct {
	db *sql.DB
}

// NewSeriesDetailPostgres creates a new SeriesDetailPostgres repository.
func NewSeriesDetailPostgres(db *sql.DB) *SeriesDetailPostgres {
	return &SeriesDetailPostgres{db: db}
}

var _ repository.SeriesDetailRepository = (*SeriesDetailPostgres)(nil)

// categoryColumns whitelists the tally columns interpolated into vote updates.
var categoryColumns = map[model.Category][2]string{
	model.CategoryStory:         {"story_total", "story_count"},
	model.CategoryCharacters:    {"characters_total", "characters_count"},
	model.CategoryWorldBuilding: {"worldbuilding_total", "worldbuilding_count"},
	model.CategoryArt:           {"art_total", "art_count"},
	model.CategoryDramaOrFight:  {"drama_or_fight_total", "drama_or_fight_count"},
}

const detailColumns = `id, series_id, synopsis, series_cover_url,
	story_total, story_count, characters_total, characters_count,
	worldbuilding_total, worldbuilding_count, art_total, art_count,
	drama_or_fight_total, drama_or_fight_count`

func scanDetail(row scanner) (*model.SeriesDetail, error) {
	var d model.SeriesDetail
	if err := row.Scan(
		&d.ID, &d.SeriesID, &d.Synopsis, &d.CoverURL,
		&d.StoryTotal, &d.StoryCount, &d.CharactersTotal, &d.CharactersCount,
		&d.WorldBuildingTotal, &d.WorldBuildingCount, &d.ArtTotal, &d.ArtCount,
		&d.DramaOrFightTotal, &d.DramaOrFightCount,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindBySeriesID fetches the detail row of a series.
func (r *SeriesDetailPostgres) FindBySeriesID(ctx context.Context, seriesID int64) (*model.SeriesDetail, error) {
	const q = `SELECT ` + detailColumns + ` FROM series_details WHERE series_id = $1`
	return scanDetail(r.db.QueryRowContext(ctx, q, seriesID))
}

// Upsert creates the detail or replaces synopsis and cover, keeping tallies.
func (r *SeriesDetailPostgres) Upsert(ctx context.Context, seriesID int64, synopsis, coverURL string) (*model.SeriesDetail, error) {
	const q = `
		INSERT INTO series_details (series_id, synopsis, series_cover_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (series_id) DO UPDATE
		SET synopsis = EXCLUDED.synopsis, series_cover_url = EXCLUDED.series_cover_url
		RETURNING ` + detailColumns
	return scanDetail(r.db.QueryRowContext(ctx, q, seriesID, synopsis, coverURL))
}

// ApplyVote stores the vote, bumps the category tally and, on the user's
// first vote for the series, the series vote_count.
func (r *SeriesDetailPostgres) ApplyVote(ctx context.Context, v model.Vote) (*model.SeriesDetail, error) {
	cols, ok := categoryColumns[v.Category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", v.Category)
	}

	var out *model.SeriesDetail
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var detailID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM series_details WHERE series_id = $1 FOR UPDATE`, v.SeriesID,
		).Scan(&detailID); err != nil {
			return err
		}

		var prior bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM user_votes WHERE user_id = $1 AND series_id = $2)`,
			v.UserID, v.SeriesID,
		).Scan(&prior); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO user_votes (user_id, series_id, category, score)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, series_id, category) DO NOTHING`,
			v.UserID, v.SeriesID, string(v.Category), v.Score)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return repository.ErrConflict
		}

		q := fmt.Sprintf(`
			UPDATE series_details
			SET %[1]s = %[1]s + $2, %[2]s = %[2]s + 1
			WHERE id = $1
			RETURNING `+detailColumns, cols[0], cols[1])
		d, err := scanDetail(tx.QueryRowContext(ctx, q, detailID, v.Score))
		if err != nil {
			return err
		}

		if !prior {
			if _, err := tx.ExecContext(ctx,
				`UPDATE series SET vote_count = vote_count + 1 WHERE id = $1`, v.SeriesID,
			); err != nil {
				return err
			}
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UserScores returns the caller's score per category for a series.
func (r *SeriesDetailPostgres) UserScores(ctx context.Context, userID, seriesID int64) (map[model.Category]int, error) {
	const q = `SELECT category, score FROM user_votes WHERE user_id = $1 AND series_id = $2`
	return r.categoryInts(ctx, q, userID, seriesID)
}

// CategoryVoters counts distinct voters per category.
func (r *SeriesDetailPostgres) CategoryVoters(ctx context.Context, seriesID int64) (map[model.Category]int, error) {
	const q = `
		SELECT category, COUNT(DISTINCT user_id)
		FROM user_votes
		WHERE series_id = $1
		GROUP BY category`
	return r.categoryInts(ctx, q, seriesID)
}

func (r *SeriesDetailPostgres) categoryInts(ctx context.Context, q string, args ...any) (map[model.Category]int, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.Category]int)
	for rows.Next() {
		var (
			cat string
			n   int
		)
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		out[model.Category(cat)] = n
	}
	return out, rows.Err()
}
