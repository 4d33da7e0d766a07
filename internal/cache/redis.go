package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// entryTTL bounds how long a memoized simulation survives; debt snapshots
// are part of the cache key, so staleness only wastes memory.
const entryTTL = 15 * time.Minute

// RedisCache stores entries in a Redis instance.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisCache connects to the Redis instance at addr.
func NewRedisCache(addr, password string) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisCache{
		client: rdb,
		ctx:    context.Background(),
	}
}

// Get returns the cached value for key, if present.
func (r *RedisCache) Get(key string) (string, bool) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores value under key with the default TTL.
func (r *RedisCache) Set(key string, value string) error {
	return r.client.Set(r.ctx, key, value, entryTTL).Err()
}
