package postgres

import (
	"context"
	"database/sql"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

// ReadingListPostgres is a PostgreSQL implementation of repository.ReadingListRepository.
type ReadingListPostgres struct {
	db *sql.DB
}

// NewReadingListPostgres creates a new ReadingListPostgres repository.
func NewReadingListPostgres(db *sql.DB) *ReadingListPostgres {
	return &ReadingListPostgres{db: db}
}

var _ repository.ReadingListRepository = (*ReadingListPostgres)(nil)

// ListByUser returns the user's lists, newest first, with their items.
func (r *ReadingListPostgres) ListByUser(ctx context.Context, userID int64) ([]model.ReadingList, error) {
	const q = `
		SELECT l.id, l.name, i.series_id
		FROM reading_lists l
		LEFT JOIN reading_list_items i ON i.list_id = l.id
		WHERE l.user_id = $1
		ORDER BY l.id DESC, i.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make([]model.ReadingList, 0)
	for rows.Next() {
		var (
			id       int64
			name     string
			seriesID sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &seriesID); err != nil {
			return nil, err
		}
		if n := len(lists); n == 0 || lists[n-1].ID != id {
			lists = append(lists, model.ReadingList{ID: id, UserID: userID, Name: name, Items: []model.ReadingListItem{}})
		}
		if seriesID.Valid {
			last := &lists[len(lists)-1]
			last.Items = append(last.Items, model.ReadingListItem{SeriesID: seriesID.Int64})
		}
	}
	return lists, rows.Err()
}

// CountByUser returns how many lists the user owns.
func (r *ReadingListPostgres) CountByUser(ctx context.Context, userID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM reading_lists WHERE user_id = $1`
	var n int
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&n)
	return n, err
}

// Create inserts an empty list.
func (r *ReadingListPostgres) Create(ctx context.Context, userID int64, name string) (*model.ReadingList, error) {
	const q = `INSERT INTO reading_lists (user_id, name) VALUES ($1, $2) RETURNING id`
	l := model.ReadingList{UserID: userID, Name: name, Items: []model.ReadingListItem{}}
	if err := r.db.QueryRowContext(ctx, q, userID, name).Scan(&l.ID); err != nil {
		return nil, mapErr(err)
	}
	return &l, nil
}

// FindOwned fetches a list only when it belongs to userID.
func (r *ReadingListPostgres) FindOwned(ctx context.Context, listID, userID int64) (*model.ReadingList, error) {
	const q = `SELECT id, user_id, name FROM reading_lists WHERE id = $1 AND user_id = $2`
	var l model.ReadingList
	if err := r.db.QueryRowContext(ctx, q, listID, userID).Scan(&l.ID, &l.UserID, &l.Name); err != nil {
		return nil, err
	}
	return &l, nil
}

// AddItem inserts the series unless it is already in the list.
func (r *ReadingListPostgres) AddItem(ctx context.Context, listID, seriesID int64) error {
	const q = `
		INSERT INTO reading_list_items (list_id, series_id)
		VALUES ($1, $2)
		ON CONFLICT (list_id, series_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, q, listID, seriesID)
	return err
}

// RemoveItem deletes one series from a list.
func (r *ReadingListPostgres) RemoveItem(ctx context.Context, listID, seriesID int64) error {
	const q = `DELETE FROM reading_list_items WHERE list_id = $1 AND series_id = $2`
	res, err := r.db.ExecContext(ctx, q, listID, seriesID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a list and its items.
func (r *ReadingListPostgres) Delete(ctx context.Context, listID int64) error {
	const q = `DELETE FROM reading_lists WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, listID)
	return err
}
