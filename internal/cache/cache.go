package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a fail-safe Redis read cache: any Redis error behaves like a
// cache miss so the database stays the sole source of truth.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps an existing go-redis client. A nil client disables caching.
func New(client *redis.Client, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Client{client: client, ttl: ttl}
}

// AuctionKey builds the cache key for one auction's read projection.
func AuctionKey(auctionID string) string {
	return "auction:" + auctionID
}

// GetJSON loads and decodes a cached value. Returns false on miss or any
// Redis/decoding failure.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

// SetJSON encodes and stores a value with the configured TTL, ignoring Redis
// errors.
func (c *Client) SetJSON(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Delete removes keys, ignoring Redis errors. Called after every committed
// bid and every sweep closure so stale projections never outlive a write.
func (c *Client) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	_ = c.client.Del(ctx, keys...).Err()
}
