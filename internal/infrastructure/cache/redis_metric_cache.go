package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fundsight/backend/internal/application/metrics"
	"github.com/fundsight/backend/internal/infrastructure/config"
)

// RedisMetricCache implements metrics.ResultCache on Redis. Entries are
// keyed on the fund's data-version fingerprint, so no explicit
// invalidation is needed; the TTL just bounds how long orphaned versions
// linger.
type RedisMetricCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisMetricCache connects to Redis and returns a metric result cache
func NewRedisMetricCache(cfg *config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisMetricCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisMetricCacheWithClient(client, ttl, logger), nil
}

// NewRedisMetricCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisMetricCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisMetricCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisMetricCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("metric_cache"),
	}
}

// Get loads a cached metric set. Cache errors are logged and reported as
// misses; metric reads must never fail because Redis is down.
func (c *RedisMetricCache) Get(ctx context.Context, key string) (*metrics.MetricSet, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var set metrics.MetricSet
	if err := json.Unmarshal(payload, &set); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return nil, false
	}
	return &set, true
}

// Set stores a metric set with the configured TTL
func (c *RedisMetricCache) Set(ctx context.Context, key string, value *metrics.MetricSet) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisMetricCache) Close() error {
	return c.client.Close()
}

// Ensure RedisMetricCache implements metrics.ResultCache
var _ metrics.ResultCache = (*RedisMetricCache)(nil)
