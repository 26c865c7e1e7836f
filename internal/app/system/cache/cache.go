// Package cache is a read-through JSON cache on Redis for hot public reads
// (club home content, home and upcoming events).
//
// The client fails safe: a nil *Client, an unset address, or a Redis outage
// all behave like a cache miss, so callers always fall back to MongoDB.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Keys shared between the readers and the writers that invalidate them.
const (
	KeyHomeEvents     = "events:home"
	KeyUpcomingEvents = "events:upcoming"
)

// HomeContentKey is the cache key for one club's home content.
func HomeContentKey(clubID string) string {
	return "club:home:" + clubID
}

// Client wraps redis.Client but swallows connectivity errors.
type Client struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a Client. An empty addr returns nil, which is a valid
// always-miss cache.
func New(addr, password string, db int, ttl time.Duration, logger *zap.Logger) *Client {
	if addr == "" {
		return nil
	}
	return &Client{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl:    ttl,
		logger: logger,
	}
}

// Ping reports whether Redis is reachable. A disabled cache reports nil.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Enabled reports whether a Redis address was configured.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON decodes the cached value for key into dst. It reports false on a
// miss, a decode failure, or any Redis error.
func (c *Client) GetJSON(ctx context.Context, key string, dst any) bool {
	if c == nil || c.client == nil {
		return false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Debug("cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		c.logger.Debug("cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON stores v under key with the configured TTL, ignoring Redis errors.
func (c *Client) SetJSON(ctx context.Context, key string, v any) {
	if c == nil || c.client == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes keys, ignoring Redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Debug("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Close releases the Redis connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
