package metrics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ResultCache stores computed metric sets outside the engine. Keys
// embed the fund's data-version fingerprint, so a write to the fund's
// transactions changes the key and stale entries simply stop being hit.
type ResultCache interface {
	Get(ctx context.Context, key string) (*MetricSet, bool)
	Set(ctx context.Context, key string, value *MetricSet)
}

// CacheKey builds the cache key for a fund's metric set at a given
// data version
func CacheKey(fundID uuid.UUID, fingerprint string) string {
	return fmt.Sprintf("metrics:%s:%s", fundID, fingerprint)
}

// NoopCache satisfies ResultCache without storing anything
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (*MetricSet, bool) { return nil, false }
func (NoopCache) Set(ctx context.Context, key string, value *MetricSet)  {}
