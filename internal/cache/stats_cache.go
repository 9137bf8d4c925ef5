package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultStatsTTL = 10 * time.Minute

// RedisStatsCache keeps computed stats payloads in redis. Entries of a user
// hang off a per-user version number, so invalidation is a single INCR.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStatsCache connects to redisURL and verifies the server answers.
func NewRedisStatsCache(redisURL string, ttl time.Duration) (*RedisStatsCache, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStatsCacheWithClient(client, ttl), nil
}

func NewRedisStatsCacheWithClient(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	return &RedisStatsCache{client: client, ttl: ttl, prefix: "fasttrack:stats"}
}

// Load returns the user's current version along with the entry, so a miss can
// be filled with Store under the same version.
func (cache *RedisStatsCache) Load(ctx context.Context, userID uint, key string, dest any) (int64, bool, error) {
	version, err := cache.version(ctx, userID)
	if err != nil {
		return 0, false, err
	}

	raw, err := cache.client.Get(ctx, cache.entryKey(userID, version, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return version, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get stats entry: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return 0, false, fmt.Errorf("decode stats entry: %w", err)
	}
	return version, true, nil
}

// Store writes under the version handed out by Load. After an Invalidate that
// version is never read again, and the entry just expires.
func (cache *RedisStatsCache) Store(ctx context.Context, userID uint, version int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode stats entry: %w", err)
	}
	if err := cache.client.Set(ctx, cache.entryKey(userID, version, key), raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("set stats entry: %w", err)
	}
	return nil
}

// Invalidate bumps the user's version. Old entries expire on their own.
func (cache *RedisStatsCache) Invalidate(ctx context.Context, userID uint) error {
	if err := cache.client.Incr(ctx, cache.versionKey(userID)).Err(); err != nil {
		return fmt.Errorf("bump stats version: %w", err)
	}
	return nil
}

func (cache *RedisStatsCache) Close() error {
	return cache.client.Close()
}

func (cache *RedisStatsCache) version(ctx context.Context, userID uint) (int64, error) {
	raw, err := cache.client.Get(ctx, cache.versionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get stats version: %w", err)
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse stats version %q: %w", raw, err)
	}
	return version, nil
}

func (cache *RedisStatsCache) versionKey(userID uint) string {
	return fmt.Sprintf("%s:%d:version", cache.prefix, userID)
}

func (cache *RedisStatsCache) entryKey(userID uint, version int64, key string) string {
	return fmt.Sprintf("%s:%d:v%d:%s", cache.prefix, userID, version, key)
}
