package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fundsight/backend/internal/application/metrics"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryMetricCache implements metrics.ResultCache with a process-local
// map. It is the fallback when Redis is disabled and keeps single-instance
// deployments from recomputing metrics on every request.
type InMemoryMetricCache struct {
	entries sync.Map // map[string]*metricEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type metricEntry struct {
	value     *metrics.MetricSet
	expiresAt time.Time
}

func (e *metricEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewInMemoryMetricCache creates an in-memory metric result cache
func NewInMemoryMetricCache(ttl time.Duration, logger *zap.Logger) *InMemoryMetricCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &InMemoryMetricCache{
		ttl:    ttl,
		logger: logger.Named("metric_cache"),
		stopCh: make(chan struct{}),
	}

	go c.cleanupExpired()

	return c
}

// Get retrieves a cached metric set
func (c *InMemoryMetricCache) Get(ctx context.Context, key string) (*metrics.MetricSet, bool) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*metricEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.value, true
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, false
}

// Set stores a metric set with the configured TTL
func (c *InMemoryMetricCache) Set(ctx context.Context, key string, value *metrics.MetricSet) {
	if value == nil {
		return
	}
	c.entries.Store(key, &metricEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Stats returns hit and miss counts
func (c *InMemoryMetricCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the background cleanup goroutine
func (c *InMemoryMetricCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// cleanupExpired periodically removes expired entries
func (c *InMemoryMetricCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.entries.Range(func(key, value any) bool {
				if value.(*metricEntry).isExpired() {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("cleaned up expired metric cache entries", zap.Int("removed", removed))
			}
		}
	}
}

// Ensure InMemoryMetricCache implements metrics.ResultCache
var _ metrics.ResultCache = (*InMemoryMetricCache)(nil)
