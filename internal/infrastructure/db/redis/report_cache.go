package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cabletrack/stb-billing/internal/api/metrics"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

const defaultReportTTL = time.Minute

// ReportCache keeps rendered report rollups for a short TTL so repeated
// range queries skip the aggregation round trips. Balances are never cached
// here, only the report read model.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache wraps the given Redis client. ttl <= 0 falls back to one minute.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Get returns the cached report for key, or (nil, nil) on a miss.
func (c *ReportCache) Get(ctx context.Context, key string) (*ports.Report, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ReportCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("report cache get: %w", err)
	}

	var report ports.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("report cache decode: %w", err)
	}
	metrics.ReportCacheTotal.WithLabelValues("hit").Inc()
	return &report, nil
}

// Set stores the report under key until the TTL expires.
func (c *ReportCache) Set(ctx context.Context, key string, r *ports.Report) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("report cache encode: %w", err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
