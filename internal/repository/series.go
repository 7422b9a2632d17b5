package repository

import (
	"context"

	"toonranks/internal/model"
)

// SeriesWithDetail pairs a series with its optional detail row.
type SeriesWithDetail struct {
	Series model.Series
	Detail *model.SeriesDetail
}

// SeriesFilter narrows ListWithDetails. Zero values match everything.
type SeriesFilter struct {
	Type *model.SeriesType
	// Query is a case-insensitive substring matched against title, genre,
	// type, author, artist and status.
	Query string
}

// SeriesRepository persists series.
type SeriesRepository interface {
	Create(ctx context.Context, s *model.Series) (*model.Series, error)
	FindByID(ctx context.Context, id int64) (*model.Series, error)
	List(ctx context.Context) ([]model.Series, error)
	// Update overwrites the editable columns of an existing row.
	Update(ctx context.Context, s *model.Series) (*model.Series, error)
	// Delete returns sql.ErrNoRows when nothing was removed.
	Delete(ctx context.Context, id int64) error
	// ListWithDetails returns every matching series with its detail, ordered by id.
	ListWithDetails(ctx context.Context, f SeriesFilter) ([]SeriesWithDetail, error)
	// SearchRefs matches titles case-insensitively.
	SearchRefs(ctx context.Context, q string, limit int) ([]model.SeriesRef, error)
}
