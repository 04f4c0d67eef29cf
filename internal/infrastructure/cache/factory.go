package cache

import (
	"go.uber.org/zap"

	"github.com/fundsight/backend/internal/application/metrics"
	"github.com/fundsight/backend/internal/infrastructure/config"
)

// NewMetricCache builds the metric result cache for the configured
// deployment: Redis when enabled, otherwise a process-local cache.
// A Redis connection failure falls back to the in-memory cache rather
// than blocking startup; metric results are recomputable. The returned
// func releases the cache's resources.
func NewMetricCache(cfg *config.Config, logger *zap.Logger) (metrics.ResultCache, func() error) {
	if cfg.Redis.Enabled {
		redisCache, err := NewRedisMetricCache(&cfg.Redis, cfg.Cache.TTL, logger)
		if err == nil {
			logger.Info("using redis metric cache", zap.String("addr", cfg.Redis.Addr()))
			return redisCache, redisCache.Close
		}
		logger.Warn("redis unavailable, falling back to in-memory metric cache. "+
			"Instances will not share cached metric results.",
			zap.Error(err),
		)
	}

	memCache := NewInMemoryMetricCache(cfg.Cache.TTL, logger)
	return memCache, memCache.Close
}
