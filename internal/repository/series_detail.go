package repository

import (
	"context"

	"toonranks/internal/model"
)

// SeriesDetailRepository persists series details and votes.
type SeriesDetailRepository interface {
	FindBySeriesID(ctx context.Context, seriesID int64) (*model.SeriesDetail, error)
	// Upsert creates the detail for a series or replaces its synopsis and cover.
	Upsert(ctx context.Context, seriesID int64, synopsis, coverURL string) (*model.SeriesDetail, error)
	// ApplyVote records the vote and folds it into the detail tallies in one
	// transaction. A repeated vote for the same category yields ErrConflict;
	// a missing detail yields sql.ErrNoRows.
	ApplyVote(ctx context.Context, v model.Vote) (*model.SeriesDetail, error)
	// UserScores returns the scores the user gave each category of a series.
	UserScores(ctx context.Context, userID, seriesID int64) (map[model.Category]int, error)
	// CategoryVoters returns the number of distinct voters per category.
	CategoryVoters(ctx context.Context, seriesID int64) (map[model.Category]int, error)
}
