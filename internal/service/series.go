package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	applog "toonranks/internal/log"
	"toonranks/internal/model"
	"toonranks/internal/ranking"
	"toonranks/internal/repository"
	"toonranks/internal/storage"
)

// Ranking page bounds.
const (
	DefaultRankingPageSize = 12
	MaxRankingPageSize     = 50
)

// CreateSeriesInput is the admin form for a new series.
type CreateSeriesInput struct {
	Title  string
	Genre  string
	Type   string
	Author string
	Artist string
	Status string
	Cover  *Upload
}

// SeriesPatch holds the fields an update may change. Nil fields are kept.
type SeriesPatch struct {
	Title  *string `json:"title"`
	Genre  *string `json:"genre"`
	Type   *string `json:"type"`
	Author *string `json:"author"`
	Artist *string `json:"artist"`
	Status *string `json:"status"`
}

// SeriesService manages series and their leaderboard.
type SeriesService interface {
	Create(ctx context.Context, in CreateSeriesInput) (*model.Series, error)
	List(ctx context.Context) ([]model.Series, error)
	Update(ctx context.Context, id int64, p SeriesPatch) (*model.Series, error)
	// Delete removes the series; a failed cover deletion is only logged.
	Delete(ctx context.Context, id int64) error
	Rankings(ctx context.Context, page, pageSize int, seriesType string) ([]model.RankedSeries, error)
	// Summary returns the series' entry in the global leaderboard.
	Summary(ctx context.Context, id int64) (*model.RankedSeries, error)
	// Search ranks the matching series among themselves.
	Search(ctx context.Context, query string) ([]model.RankedSeries, error)
}

type seriesService struct {
	repo   repository.SeriesRepository
	store  storage.Storage
	cache  ranking.Cache
	logger zerolog.Logger
}

// NewSeriesService constructs a SeriesService. A nil cache disables caching.
func NewSeriesService(repo repository.SeriesRepository, store storage.Storage, cache ranking.Cache) SeriesService {
	if cache == nil {
		cache = ranking.NopCache{}
	}
	return &seriesService{repo: repo, store: store, cache: cache, logger: applog.WithComponent("series")}
}

func (s *seriesService) Create(ctx context.Context, in CreateSeriesInput) (*model.Series, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Genre) == "" {
		return nil, invalid("Title and genre are required")
	}
	typ, err := model.ParseSeriesType(in.Type)
	if err != nil {
		return nil, invalid("Invalid series type")
	}
	var status *model.SeriesStatus
	if in.Status != "" {
		st, err := model.ParseSeriesStatus(in.Status)
		if err != nil {
			return nil, invalid("Invalid series status")
		}
		status = &st
	}
	if in.Cover == nil || in.Cover.Body == nil {
		return nil, invalid("Cover image is required")
	}

	obj, err := storage.Upload(ctx, s.store, title, "covers", in.Cover.Filename, in.Cover.ContentType, in.Cover.Body, in.Cover.Size)
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	created, err := s.repo.Create(ctx, &model.Series{
		Title:    title,
		Genre:    strings.TrimSpace(in.Genre),
		Type:     typ,
		Author:   in.Author,
		Artist:   in.Artist,
		Status:   status,
		CoverURL: obj.URL,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	s.cache.Invalidate(ctx)
	return created, nil
}

func (s *seriesService) List(ctx context.Context) ([]model.Series, error) {
	return s.repo.List(ctx)
}

func (s *seriesService) Update(ctx context.Context, id int64, p SeriesPatch) (*model.Series, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}

	if p.Title != nil {
		cur.Title = *p.Title
	}
	if p.Genre != nil {
		cur.Genre = *p.Genre
	}
	if p.Author != nil {
		cur.Author = *p.Author
	}
	if p.Artist != nil {
		cur.Artist = *p.Artist
	}
	if p.Type != nil {
		t, err := model.ParseSeriesType(*p.Type)
		if err != nil {
			return nil, invalid("Invalid series type")
		}
		cur.Type = t
	}
	if p.Status != nil {
		st, err := model.ParseSeriesStatus(*p.Status)
		if err != nil {
			return nil, invalid("Invalid series status")
		}
		cur.Status = &st
	}

	updated, err := s.repo.Update(ctx, cur)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return updated, nil
}

func (s *seriesService) Delete(ctx context.Context, id int64) error {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return ErrSeriesNotFound
		}
		return err
	}

	if cur.CoverURL != "" {
		if key, err := s.store.KeyFromURL(cur.CoverURL); err != nil {
			s.logger.Warn().Err(err).Int64("series_id", id).Msg("cover_key_unresolved")
		} else if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Int64("series_id", id).Str("key", key).Msg("cover_delete_failed")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if isNoRows(err) {
			return ErrSeriesNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// leaderboard returns the cached ranking for the type filter, computing it on a miss.
func (s *seriesService) leaderboard(ctx context.Context, typ *model.SeriesType) ([]model.RankedSeries, error) {
	key := ranking.Key(typ)
	// gen is read before the rows so a concurrent write's Invalidate retires
	// whatever this call computes.
	list, gen, ok := s.cache.Get(ctx, key)
	if ok {
		return list, nil
	}
	rows, err := s.repo.ListWithDetails(ctx, repository.SeriesFilter{Type: typ})
	if err != nil {
		return nil, err
	}
	list = ranking.Compute(rows)
	s.cache.Set(ctx, key, gen, list)
	return list, nil
}

func (s *seriesService) Rankings(ctx context.Context, page, pageSize int, seriesType string) ([]model.RankedSeries, error) {
	if page < 1 {
		return nil, newError(ErrUnprocessable, "page must be at least 1")
	}
	if pageSize < 1 || pageSize > MaxRankingPageSize {
		return nil, newError(ErrUnprocessable, fmt.Sprintf("page_size must be between 1 and %d", MaxRankingPageSize))
	}
	var typ *model.SeriesType
	if seriesType != "" {
		t, err := model.ParseSeriesType(seriesType)
		if err != nil {
			return nil, newError(ErrUnprocessable, "Invalid series type")
		}
		typ = &t
	}

	list, err := s.leaderboard(ctx, typ)
	if err != nil {
		return nil, err
	}
	return ranking.Page(list, page, pageSize), nil
}

func (s *seriesService) Summary(ctx context.Context, id int64) (*model.RankedSeries, error) {
	list, err := s.leaderboard(ctx, nil)
	if err != nil {
		return nil, err
	}
	rs, ok := ranking.Find(list, id)
	if !ok {
		return nil, ErrSeriesNotFound
	}
	return rs, nil
}

func (s *seriesService) Search(ctx context.Context, query string) ([]model.RankedSeries, error) {
	if strings.TrimSpace(query) == "" {
		return nil, newError(ErrUnprocessable, "query is required")
	}
	rows, err := s.repo.ListWithDetails(ctx, repository.SeriesFilter{Query: query})
	if err != nil {
		return nil, err
	}
	return ranking.Compute(rows), nil
}
