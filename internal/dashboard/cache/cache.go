package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hangarhub/pkg/logger"
)

// MetricsCache keeps rendered dashboards in Redis for a short TTL so a
// refresh-happy client does not re-run the aggregations every time. A nil
// client disables caching entirely; every method degrades to a miss.
type MetricsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewMetricsCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *MetricsCache {
	return &MetricsCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func key(role, userID string) string {
	return fmt.Sprintf("dashboard:%s:%s", role, userID)
}

// Get unmarshals the cached dashboard into dest. The bool reports a hit.
func (c *MetricsCache) Get(ctx context.Context, role, userID string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}

	data, err := c.client.Get(ctx, key(role, userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Dashboard cache read failed", "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("Dashboard cache entry corrupt, ignoring", "error", err)
		return false
	}
	return true
}

func (c *MetricsCache) Set(ctx context.Context, role, userID string, value any) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Dashboard cache marshal failed", "error", err)
		return
	}

	if err := c.client.Set(ctx, key(role, userID), data, c.ttl).Err(); err != nil {
		c.log.Warn("Dashboard cache write failed", "error", err)
	}
}
