package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

// MaxListNameLength bounds reading list names in characters.
const MaxListNameLength = 50

// ReadingListService manages a user's reading lists. Every method is scoped
// to the calling user.
type ReadingListService interface {
	Mine(ctx context.Context, userID int64) ([]model.ReadingList, error)
	Create(ctx context.Context, userID int64, name string) (*model.ReadingList, error)
	// AddSeries is idempotent and returns the updated list.
	AddSeries(ctx context.Context, userID, listID, seriesID int64) (*model.ReadingList, error)
	RemoveSeries(ctx context.Context, userID, listID, seriesID int64) (*model.ReadingList, error)
	Delete(ctx context.Context, userID, listID int64) error
}

type readingListService struct {
	lists  repository.ReadingListRepository
	series repository.SeriesRepository
}

// NewReadingListService constructs a ReadingListService.
func NewReadingListService(lists repository.ReadingListRepository, series repository.SeriesRepository) ReadingListService {
	return &readingListService{lists: lists, series: series}
}

func (s *readingListService) Mine(ctx context.Context, userID int64) ([]model.ReadingList, error) {
	lists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []model.ReadingList{}
	}
	return lists, nil
}

func (s *readingListService) Create(ctx context.Context, userID int64, name string) (*model.ReadingList, error) {
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxListNameLength {
		return nil, newError(ErrUnprocessable, "name must be between 1 and 50 characters")
	}
	count, err := s.lists.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxReadingListsPerUser {
		return nil, ErrListLimit
	}
	l, err := s.lists.Create(ctx, userID, name)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrListNameTaken
		}
		return nil, err
	}
	return l, nil
}

func (s *readingListService) owned(ctx context.Context, userID, listID int64) error {
	if _, err := s.lists.FindOwned(ctx, listID, userID); err != nil {
		if isNoRows(err) {
			return ErrListNotFound
		}
		return err
	}
	return nil
}

// reload returns the list with its current items.
func (s *readingListService) reload(ctx context.Context, userID, listID int64) (*model.ReadingList, error) {
	lists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		if lists[i].ID == listID {
			return &lists[i], nil
		}
	}
	return nil, ErrListNotFound
}

func (s *readingListService) AddSeries(ctx context.Context, userID, listID, seriesID int64) (*model.ReadingList, error) {
	if err := s.owned(ctx, userID, listID); err != nil {
		return nil, err
	}
	if _, err := s.series.FindByID(ctx, seriesID); err != nil {
		if isNoRows(err) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	if err := s.lists.AddItem(ctx, listID, seriesID); err != nil {
		return nil, err
	}
	return s.reload(ctx, userID, listID)
}

func (s *readingListService) RemoveSeries(ctx context.Context, userID, listID, seriesID int64) (*model.ReadingList, error) {
	if err := s.owned(ctx, userID, listID); err != nil {
		return nil, err
	}
	if err := s.lists.RemoveItem(ctx, listID, seriesID); err != nil {
		if isNoRows(err) {
			return nil, ErrListItemNotFound
		}
		return nil, err
	}
	return s.reload(ctx, userID, listID)
}

func (s *readingListService) Delete(ctx context.Context, userID, listID int64) error {
	if err := s.owned(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.lists.Delete(ctx, listID); err != nil && !isNoRows(err) {
		return err
	}
	return nil
}
