package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"toonranks/internal/model"
)

type MockReadingListRepository struct {
	mock.Mock
}

func (m *MockReadingListRepository) ListByUser(ctx context.Context, userID int64) ([]model.ReadingList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReadingList), args.Error(1)
}

func (m *MockReadingListRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockReadingListRepository) Create(ctx context.Context, userID int64, name string) (*model.ReadingList, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReadingList), args.Error(1)
}

func (m *MockReadingListRepository) FindOwned(ctx context.Context, listID, userID int64) (*model.ReadingList, error) {
	args := m.Called(ctx, listID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReadingList), args.Error(1)
}

func (m *MockReadingListRepository) AddItem(ctx context.Context, listID, seriesID int64) error {
	args := m.Called(ctx, listID, seriesID)
	return args.Error(0)
}

func (m *MockReadingListRepository) RemoveItem(ctx context.Context, listID, seriesID int64) error {
	args := m.Called(ctx, listID, seriesID)
	return args.Error(0)
}

func (m *MockReadingListRepository) Delete(ctx context.Context, listID int64) error {
	args := m.Called(ctx, listID)
	return args.Error(0)
}
