// Package rediscache implements ports.Cache and the event idempotency guard on Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	eventKeyPrefix = "event:"
	eventKeyTTL    = 24 * time.Hour
)

// Cache implements ports.Cache and the consumer's deduplication store on Redis.
type Cache struct {
	client *redis.Client
}

// NewCache wraps an already configured client.
//
// Example:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	cache := rediscache.NewCache(client)
//	_ = cache.SetJSON(ctx, ports.CourierBoardCacheKey, board, 30*time.Second)
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetJSON reports a miss as found == false with a nil error.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err = json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value as JSON; a zero ttl keeps the key forever.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// Delete removes keys; missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// ClaimEvent marks messageID as handled. It returns false when another
// consumer already claimed it within the last 24 hours.
func (c *Cache) ClaimEvent(ctx context.Context, messageID string) (bool, error) {
	return c.client.SetNX(ctx, eventKeyPrefix+messageID, 1, eventKeyTTL).Result()
}
