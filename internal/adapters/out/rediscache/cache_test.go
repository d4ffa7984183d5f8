package rediscache_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketplace/internal/adapters/out/rediscache"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Cache = (*rediscache.Cache)(nil)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

type board struct {
	IDs   []string `json:"ids"`
	Total string   `json:"total"`
}

func TestCache_JSONRoundTrip(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	cache := rediscache.NewCache(client)
	key := "test:board:" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, key) })

	var miss board
	found, err := cache.GetJSON(ctx, key, &miss)
	require.NoError(t, err)
	assert.False(t, found)

	want := board{IDs: []string{"a", "b"}, Total: "50.00"}
	require.NoError(t, cache.SetJSON(ctx, key, want, time.Minute))

	var got board
	found, err = cache.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestCache_Delete(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	cache := rediscache.NewCache(client)
	first, second := "test:cart:"+uuid.NewString(), "test:stock:"+uuid.NewString()

	require.NoError(t, cache.SetJSON(ctx, first, 1, time.Minute))
	require.NoError(t, cache.SetJSON(ctx, second, 2, time.Minute))
	require.NoError(t, cache.Delete(ctx, first, second))
	require.NoError(t, cache.Delete(ctx))

	var v int
	found, err := cache.GetJSON(ctx, first, &v)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = cache.GetJSON(ctx, second, &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_GetJSON_CorruptValue(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	key := "test:corrupt:" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, key) })
	require.NoError(t, client.Set(ctx, key, "{not json", time.Minute).Err())

	var dst board
	found, err := rediscache.NewCache(client).GetJSON(ctx, key, &dst)
	require.Error(t, err)
	assert.False(t, found)
}

func TestCache_ClaimEvent_OnlyOnce(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	cache := rediscache.NewCache(client)
	messageID := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, "event:"+messageID) })

	var claimed atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := cache.ClaimEvent(ctx, messageID)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ok {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), claimed.Load())

	ttl, err := client.TTL(ctx, "event:"+messageID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 23*time.Hour)
}
