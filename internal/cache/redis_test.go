package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/config"
	"toonranks/internal/model"
	"toonranks/internal/ranking"
)

var _ ranking.Cache = (*RankingCache)(nil)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *RankingCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, newRankingCache(client, time.Minute, zerolog.Nop())
}

func TestRankingCache_SetGet(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()
	rank := 1

	_, gen, ok := c.Get(ctx, "MANGA")
	require.False(t, ok)
	assert.Zero(t, gen)

	c.Set(ctx, "MANGA", gen, []model.RankedSeries{{Series: model.Series{ID: 3, Title: "Berserk"}, FinalScore: 9.5, Rank: &rank}})

	got, gen, ok := c.Get(ctx, "MANGA")
	require.True(t, ok)
	assert.Zero(t, gen)
	require.Len(t, got, 1)
	assert.Equal(t, "Berserk", got[0].Title)
	assert.Equal(t, 1, *got[0].Rank)
	assert.True(t, mr.Exists(keyPrefix+"0:MANGA"))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"0:MANGA"))
}

func TestRankingCache_MissAndCorrupt(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()

	_, _, ok := c.Get(ctx, "all")
	assert.False(t, ok)

	require.NoError(t, mr.Set(keyPrefix+"0:all", "{not json"))
	_, gen, ok := c.Get(ctx, "all")
	assert.False(t, ok)
	assert.Zero(t, gen)
}

func TestRankingCache_Expiry(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()

	c.Set(ctx, "all", 0, []model.RankedSeries{})
	mr.FastForward(2 * time.Minute)
	_, _, ok := c.Get(ctx, "all")
	assert.False(t, ok)
}

func TestRankingCache_Invalidate(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()

	c.Set(ctx, "all", 0, []model.RankedSeries{})
	c.Set(ctx, "MANHWA", 0, []model.RankedSeries{})
	require.NoError(t, mr.Set("unrelated", "keep"))

	c.Invalidate(ctx)

	_, gen, ok := c.Get(ctx, "all")
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)
	_, _, ok = c.Get(ctx, "MANHWA")
	assert.False(t, ok)
	assert.True(t, mr.Exists("unrelated"))
}

func TestRankingCache_WriteRacingInvalidateIsNeverServed(t *testing.T) {
	_, c := setupMiniRedis(t)
	ctx := context.Background()
	stale := []model.RankedSeries{{Series: model.Series{ID: 1, Title: "before vote"}}}

	// reader misses and starts computing under generation 0
	_, gen, ok := c.Get(ctx, "all")
	require.False(t, ok)

	// a write commits and invalidates while the reader is still computing
	c.Invalidate(ctx)

	// the reader finishes and stores what it computed
	c.Set(ctx, "all", gen, stale)

	_, gen, ok = c.Get(ctx, "all")
	assert.False(t, ok, "list computed before the invalidation must not be served")
	assert.Equal(t, int64(1), gen)
}

func TestRankingCache_BackendDown(t *testing.T) {
	mr, c := setupMiniRedis(t)
	mr.Close()

	ctx := context.Background()
	c.Set(ctx, "all", 0, []model.RankedSeries{})
	_, gen, ok := c.Get(ctx, "all")
	assert.False(t, ok)
	assert.Equal(t, int64(-1), gen)
	c.Invalidate(ctx)
	assert.Error(t, c.HealthCheck(ctx))
}

func TestNewRankingCache_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRankingCache(config.RedisConfig{Addr: addr}, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewRankingCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRankingCache(config.RedisConfig{Addr: mr.Addr(), RankingTTL: 30 * time.Second}, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, 30*time.Second, c.ttl)
	assert.NoError(t, c.HealthCheck(context.Background()))
}
