// Package rediscache provides a Redis-backed read cache for the customer
// tracking page. Tracking pages poll, so even a short TTL absorbs most of the
// read load without risking stale admin views.
package rediscache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Second

// TimelineCache caches serialized timeline responses keyed by order number.
// All operations are best-effort: a cache outage degrades to database reads
// and is logged, never returned to the caller.
type TimelineCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewTimelineCache creates a cache on top of an existing Redis client.
func NewTimelineCache(client *redis.Client, logger *slog.Logger) *TimelineCache {
	return &TimelineCache{
		client: client,
		ttl:    defaultTTL,
		logger: logger.With("component", "timeline_cache"),
	}
}

// Get returns the cached payload for key, if present.
func (c *TimelineCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return payload, true
}

// Set stores payload under key with the configured TTL.
func (c *TimelineCache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Cache write failed", "key", key, "error", err)
	}
}
