package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/model"
	"toonranks/internal/repository"
	repoMocks "toonranks/internal/repository/mocks"
)

func newSitemap(mRepo *repoMocks.MockForumRepository, perFile int) *sitemapService {
	s := NewSitemapService(mRepo, "https://toonranks.test", perFile).(*sitemapService)
	s.now = func() time.Time { return time.Date(2024, 6, 2, 23, 0, 0, 0, time.UTC) }
	return s
}

func TestSitemapService_Index(t *testing.T) {
	ctx := context.Background()
	active := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("one forum page per file", func(t *testing.T) {
		mRepo := new(repoMocks.MockForumRepository)
		mRepo.On("Stats", ctx).Return(repository.ThreadStats{Count: 5, LastActivity: &active}, nil)

		out, err := newSitemap(mRepo, 2).Index(ctx)
		require.NoError(t, err)
		body := string(out)
		assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
		assert.Contains(t, body, `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
		assert.Contains(t, body, "<loc>https://toonranks.test/sitemap-static.xml</loc>\n    <lastmod>2024-06-02</lastmod>")
		assert.Contains(t, body, "https://toonranks.test/sitemaps/forum-3.xml")
		assert.NotContains(t, body, "forum-4.xml")
		assert.Contains(t, body, "<lastmod>2024-06-01</lastmod>")
	})

	t.Run("no threads", func(t *testing.T) {
		mRepo := new(repoMocks.MockForumRepository)
		mRepo.On("Stats", ctx).Return(repository.ThreadStats{}, nil)

		out, err := newSitemap(mRepo, 2).Index(ctx)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "forum-")
	})
}

func TestSitemapService_ForumPage(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockForumRepository)
	mRepo.On("Stats", ctx).Return(repository.ThreadStats{Count: 3}, nil)
	mRepo.On("ThreadLastMods", ctx, repository.PageQuery{Limit: 2, Offset: 2}).
		Return([]model.ThreadLastMod{{ID: 9, LastMod: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)}}, nil)

	s := newSitemap(mRepo, 2)

	out, err := s.ForumPage(ctx, 2)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<loc>https://toonranks.test/forum/9</loc>")
	assert.Contains(t, string(out), "<lastmod>2024-01-05</lastmod>")

	_, err = s.ForumPage(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ForumPage(ctx, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	mRepo.AssertExpectations(t)
}

func TestSitemapService_Static(t *testing.T) {
	out, err := newSitemap(nil, 0).Static(context.Background())
	require.NoError(t, err)
	body := string(out)
	assert.Equal(t, len(StaticPages), strings.Count(body, "<url>"))
	assert.Contains(t, body, "<loc>https://toonranks.test/how-rankings-work</loc>")
}
