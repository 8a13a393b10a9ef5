package hierarchy

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"muster/internal/hierarchy/models"
	platredis "muster/internal/platform/redis"
)

const snapshotKey = "muster:locations:snapshot"

// SnapshotCache caches the flat location list in Redis so repeated
// builds do not re-read the backing store. Invalidate must be called on
// any location mutation; the TTL bounds staleness either way. A nil
// Redis client degrades to direct reads.
type SnapshotCache struct {
	inner  Store
	client *platredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotCache wraps a location store with a Redis cache layer.
func NewSnapshotCache(inner Store, client *platredis.Client, ttl time.Duration, logger *slog.Logger) *SnapshotCache {
	return &SnapshotCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

// All returns the cached location list, falling through to the store on
// a miss or any cache failure. Cache trouble is logged, never surfaced:
// the hierarchy read must not fail because the cache is down.
func (c *SnapshotCache) All(ctx context.Context) ([]models.Location, error) {
	if c.client == nil {
		return c.inner.All(ctx)
	}

	raw, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err == nil {
		var locations []models.Location
		if err := json.Unmarshal(raw, &locations); err == nil {
			return locations, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable location snapshot", "key", snapshotKey)
	}

	locations, err := c.inner.All(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(locations); err == nil {
		if err := c.client.Set(ctx, snapshotKey, raw, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "failed to cache location snapshot", "error", err.Error())
		}
	}
	return locations, nil
}

// Invalidate drops the cached snapshot after a location mutation.
func (c *SnapshotCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate location snapshot", "error", err.Error())
	}
}
