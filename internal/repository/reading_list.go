package repository

import (
	"context"

	"toonranks/internal/model"
)

// ReadingListRepository persists user reading lists.
type ReadingListRepository interface {
	// ListByUser returns the user's lists, newest first, with their items.
	ListByUser(ctx context.Context, userID int64) ([]model.ReadingList, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	// Create yields ErrConflict when the user already has a list with that name.
	Create(ctx context.Context, userID int64, name string) (*model.ReadingList, error)
	// FindOwned returns sql.ErrNoRows unless the list exists and belongs to the user.
	FindOwned(ctx context.Context, listID, userID int64) (*model.ReadingList, error)
	// AddItem is idempotent.
	AddItem(ctx context.Context, listID, seriesID int64) error
	// RemoveItem returns sql.ErrNoRows when the series is not in the list.
	RemoveItem(ctx context.Context, listID, seriesID int64) error
	Delete(ctx context.Context, listID int64) error
}
