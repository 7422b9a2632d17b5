package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"toonranks/internal/model"
	"toonranks/internal/ranking"
	"toonranks/internal/repository"
	"toonranks/internal/storage"
)

// SeriesDetailService manages synopses, detail covers and votes.
type SeriesDetailService interface {
	// Upsert stores a new cover and creates or replaces the series detail.
	Upsert(ctx context.Context, seriesID int64, synopsis string, cover *Upload) (*model.SeriesDetail, error)
	Vote(ctx context.Context, userID, seriesID int64, category string, score int) (*model.SeriesDetail, error)
	// Get returns the public detail view. viewer may be nil.
	Get(ctx context.Context, seriesID int64, viewer *model.User) (*model.SeriesDetailView, error)
}

type seriesDetailService struct {
	series  repository.SeriesRepository
	details repository.SeriesDetailRepository
	store   storage.Storage
	cache   ranking.Cache
}

// NewSeriesDetailService constructs a SeriesDetailService.
func NewSeriesDetailService(series repository.SeriesRepository, details repository.SeriesDetailRepository,
	store storage.Storage, cache ranking.Cache) SeriesDetailService {
	if cache == nil {
		cache = ranking.NopCache{}
	}
	return &seriesDetailService{series: series, details: details, store: store, cache: cache}
}

func (s *seriesDetailService) Upsert(ctx context.Context, seriesID int64, synopsis string, cover *Upload) (*model.SeriesDetail, error) {
	if cover == nil || cover.Body == nil {
		return nil, invalid("Cover image is required")
	}
	if _, err := s.series.FindByID(ctx, seriesID); err != nil {
		if isNoRows(err) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}

	folder := strconv.FormatInt(seriesID, 10) + "/covers"
	obj, err := storage.Upload(ctx, s.store, folder, "covers", cover.Filename, cover.ContentType, cover.Body, cover.Size)
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	d, err := s.details.Upsert(ctx, seriesID, synopsis, obj.URL)
	if err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return d, nil
}

func (s *seriesDetailService) Vote(ctx context.Context, userID, seriesID int64, category string, score int) (*model.SeriesDetail, error) {
	c, err := model.ParseCategory(category)
	if err != nil || score < model.MinScore || score > model.MaxScore {
		return nil, ErrInvalidVote
	}

	d, err := s.details.ApplyVote(ctx, model.Vote{UserID: userID, SeriesID: seriesID, Category: c, Score: score})
	switch {
	case err == nil:
	case isNoRows(err):
		return nil, ErrSeriesDetailNotFound
	case errors.Is(err, repository.ErrConflict):
		return nil, ErrAlreadyVoted
	default:
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return d, nil
}

func (s *seriesDetailService) Get(ctx context.Context, seriesID int64, viewer *model.User) (*model.SeriesDetailView, error) {
	ser, err := s.series.FindByID(ctx, seriesID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}

	d, err := s.details.FindBySeriesID(ctx, seriesID)
	switch {
	case isNoRows(err):
		d = &model.SeriesDetail{SeriesID: seriesID}
	case err != nil:
		return nil, err
	}

	scores := map[model.Category]int{}
	if viewer != nil {
		if scores, err = s.details.UserScores(ctx, viewer.ID, seriesID); err != nil {
			return nil, err
		}
	}
	counts, err := s.details.CategoryVoters(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	return &model.SeriesDetailView{
		SeriesDetail: *d,
		Author:       ser.Author,
		Artist:       ser.Artist,
		VoteScores:   scores,
		VoteCounts:   counts,
	}, nil
}
