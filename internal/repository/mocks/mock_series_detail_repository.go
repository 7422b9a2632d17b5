package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"toonranks/internal/model"
)

type MockSeriesDetailRepository struct {
	mock.Mock
}

func (m *MockSeriesDetailRepository) FindBySeriesID(ctx context.Context, seriesID int64) (*model.SeriesDetail, error) {
	args := m.Called(ctx, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeriesDetail), args.Error(1)
}

func (m *MockSeriesDetailRepository) Upsert(ctx context.Context, seriesID int64, synopsis, coverURL string) (*model.SeriesDetail, error) {
	args := m.Called(ctx, seriesID, synopsis, coverURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeriesDetail), args.Error(1)
}

func (m *MockSeriesDetailRepository) ApplyVote(ctx context.Context, v model.Vote) (*model.SeriesDetail, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeriesDetail), args.Error(1)
}

func (m *MockSeriesDetailRepository) UserScores(ctx context.Context, userID, seriesID int64) (map[model.Category]int, error) {
	args := m.Called(ctx, userID, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.Category]int), args.Error(1)
}

func (m *MockSeriesDetailRepository) CategoryVoters(ctx context.Context, seriesID int64) (map[model.Category]int, error) {
	args := m.Called(ctx, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.Category]int), args.Error(1)
}
