package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"toonranks/internal/model"
	"toonranks/internal/repository"
	repoMocks "toonranks/internal/repository/mocks"
	storeMocks "toonranks/internal/storage/mocks"
)

func TestSeriesDetailService_Upsert(t *testing.T) {
	ctx := context.Background()
	cover := func() *Upload {
		return &Upload{Filename: "c.webp", ContentType: "image/webp", Size: 3, Body: strings.NewReader("abc")}
	}

	t.Run("stores under the series folder", func(t *testing.T) {
		mSeries := new(repoMocks.MockSeriesRepository)
		mDetails := new(repoMocks.MockSeriesDetailRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewSeriesDetailService(mSeries, mDetails, mStore, nil)

		mSeries.On("FindByID", ctx, int64(4)).Return(&model.Series{ID: 4}, nil)
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "4_covers/covers/")
		}), mock.Anything, mock.Anything).Return(storedAt, nil)
		mDetails.On("Upsert", ctx, int64(4), "syn", mock.MatchedBy(func(u string) bool {
			return strings.HasPrefix(u, "https://cdn.test/4_covers/covers/")
		})).Return(&model.SeriesDetail{ID: 1, SeriesID: 4, Synopsis: "syn"}, nil)

		d, err := svc.Upsert(ctx, 4, "syn", cover())
		require.NoError(t, err)
		assert.Equal(t, "syn", d.Synopsis)
		mSeries.AssertExpectations(t)
		mDetails.AssertExpectations(t)
		mStore.AssertExpectations(t)
	})

	t.Run("db failure rolls the upload back", func(t *testing.T) {
		mSeries := new(repoMocks.MockSeriesRepository)
		mDetails := new(repoMocks.MockSeriesDetailRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewSeriesDetailService(mSeries, mDetails, mStore, nil)

		mSeries.On("FindByID", ctx, int64(4)).Return(&model.Series{ID: 4}, nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storedAt, nil)
		mDetails.On("Upsert", ctx, int64(4), "syn", mock.Anything).Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := svc.Upsert(ctx, 4, "syn", cover())
		assert.EqualError(t, err, "db save failed: db fail")
		mStore.AssertExpectations(t)
	})

	t.Run("unknown series", func(t *testing.T) {
		mSeries := new(repoMocks.MockSeriesRepository)
		svc := NewSeriesDetailService(mSeries, nil, nil, nil)
		mSeries.On("FindByID", ctx, int64(5)).Return(nil, sql.ErrNoRows)

		_, err := svc.Upsert(ctx, 5, "syn", cover())
		assert.ErrorIs(t, err, ErrSeriesNotFound)
	})
}

func TestSeriesDetailService_Vote(t *testing.T) {
	ctx := context.Background()
	vote := model.Vote{UserID: 2, SeriesID: 4, Category: model.CategoryArt, Score: 8}

	tests := []struct {
		name       string
		category   string
		score      int
		setupMocks func(mDetails *repoMocks.MockSeriesDetailRepository)
		wantErr    error
		wantFlush  bool
	}{
		{
			name:     "happy path",
			category: "Art",
			score:    8,
			setupMocks: func(mDetails *repoMocks.MockSeriesDetailRepository) {
				mDetails.On("ApplyVote", ctx, vote).Return(&model.SeriesDetail{ArtTotal: 8, ArtCount: 1}, nil)
			},
			wantFlush: true,
		},
		{
			name:       "score out of range",
			category:   "Art",
			score:      11,
			setupMocks: func(*repoMocks.MockSeriesDetailRepository) {},
			wantErr:    ErrInvalidVote,
		},
		{
			name:       "category is case sensitive",
			category:   "art",
			score:      8,
			setupMocks: func(*repoMocks.MockSeriesDetailRepository) {},
			wantErr:    ErrInvalidVote,
		},
		{
			name:     "no detail row",
			category: "Art",
			score:    8,
			setupMocks: func(mDetails *repoMocks.MockSeriesDetailRepository) {
				mDetails.On("ApplyVote", ctx, vote).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrSeriesDetailNotFound,
		},
		{
			name:     "second vote in the same category",
			category: "Art",
			score:    8,
			setupMocks: func(mDetails *repoMocks.MockSeriesDetailRepository) {
				mDetails.On("ApplyVote", ctx, vote).Return(nil, repository.ErrConflict)
			},
			wantErr: ErrAlreadyVoted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mDetails := new(repoMocks.MockSeriesDetailRepository)
			cache := newMemCache()
			svc := NewSeriesDetailService(nil, mDetails, nil, cache)
			tt.setupMocks(mDetails)

			_, err := svc.Vote(ctx, 2, 4, tt.category, tt.score)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantFlush, cache.invalidated == 1)
			mDetails.AssertExpectations(t)
		})
	}
}

func TestSeriesDetailService_Get(t *testing.T) {
	ctx := context.Background()
	voters := map[model.Category]int{model.CategoryStory: 3}

	t.Run("anonymous viewer without detail row", func(t *testing.T) {
		mSeries := new(repoMocks.MockSeriesRepository)
		mDetails := new(repoMocks.MockSeriesDetailRepository)
		svc := NewSeriesDetailService(mSeries, mDetails, nil, nil)

		mSeries.On("FindByID", ctx, int64(4)).Return(&model.Series{ID: 4, Author: "A", Artist: "B"}, nil)
		mDetails.On("FindBySeriesID", ctx, int64(4)).Return(nil, sql.ErrNoRows)
		mDetails.On("CategoryVoters", ctx, int64(4)).Return(voters, nil)

		v, err := svc.Get(ctx, 4, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(4), v.SeriesID)
		assert.Equal(t, "A", v.Author)
		assert.Empty(t, v.VoteScores)
		assert.NotNil(t, v.VoteScores)
		assert.Equal(t, 3, v.VoteCounts[model.CategoryStory])
		mDetails.AssertNotCalled(t, "UserScores", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("signed in viewer sees their scores", func(t *testing.T) {
		mSeries := new(repoMocks.MockSeriesRepository)
		mDetails := new(repoMocks.MockSeriesDetailRepository)
		svc := NewSeriesDetailService(mSeries, mDetails, nil, nil)

		mSeries.On("FindByID", ctx, int64(4)).Return(&model.Series{ID: 4}, nil)
		mDetails.On("FindBySeriesID", ctx, int64(4)).Return(&model.SeriesDetail{ID: 1, SeriesID: 4, Synopsis: "syn"}, nil)
		mDetails.On("UserScores", ctx, int64(2), int64(4)).Return(map[model.Category]int{model.CategoryArt: 9}, nil)
		mDetails.On("CategoryVoters", ctx, int64(4)).Return(voters, nil)

		v, err := svc.Get(ctx, 4, &model.User{ID: 2})
		require.NoError(t, err)
		assert.Equal(t, "syn", v.Synopsis)
		assert.Equal(t, 9, v.VoteScores[model.CategoryArt])
		mDetails.AssertExpectations(t)
	})

	t.Run("unknown series", func(t *testing.T) {
		mSeries := new(repoMocks.MockSeriesRepository)
		svc := NewSeriesDetailService(mSeries, nil, nil, nil)
		mSeries.On("FindByID", ctx, int64(9)).Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, 9, nil)
		assert.ErrorIs(t, err, ErrSeriesNotFound)
	})
}
