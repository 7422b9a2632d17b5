// Package cache stores computed rankings in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"toonranks/internal/config"
	"toonranks/internal/model"
)

const (
	keyPrefix = "toonranks:rankings:"
	// genKey holds the invalidation counter. Leaderboards live under
	// "<prefix><gen>:<key>", so bumping it retires every stored list at once
	// and writes racing an invalidation go to a key nobody reads.
	genKey = keyPrefix + "gen"
)

// RankingCache is a Redis-backed ranking.Cache. Backend errors are logged
// and reported as misses.
type RankingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRankingCache connects to Redis and verifies the connection.
func NewRankingCache(cfg config.RedisConfig, logger zerolog.Logger) (*RankingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("connected to Redis ranking cache")

	return newRankingCache(client, cfg.RankingTTL, logger), nil
}

func newRankingCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RankingCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RankingCache{client: client, ttl: ttl, logger: logger}
}

func dataKey(gen int64, key string) string {
	return keyPrefix + strconv.FormatInt(gen, 10) + ":" + key
}

// generation returns the current counter; a missing key is generation 0.
func (c *RankingCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RankingCache) Get(ctx context.Context, key string) ([]model.RankedSeries, int64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("redis generation read failed")
		return nil, -1, false
	}

	val, err := c.client.Get(ctx, dataKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis get failed")
		return nil, gen, false
	}

	var list []model.RankedSeries
	if err := json.Unmarshal(val, &list); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("json unmarshal failed")
		return nil, gen, false
	}
	return list, gen, true
}

// Set stores list under gen. A negative gen comes from a failed Get and is
// never written.
func (c *RankingCache) Set(ctx context.Context, key string, gen int64, list []model.RankedSeries) {
	if gen < 0 {
		return
	}
	data, err := json.Marshal(list)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("json marshal failed")
		return
	}
	if err := c.client.Set(ctx, dataKey(gen, key), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

// Invalidate bumps the generation. Retired lists expire with their TTL.
func (c *RankingCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("redis invalidate failed")
	}
}

// HealthCheck pings Redis.
func (c *RankingCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RankingCache) Close() error {
	return c.client.Close()
}
