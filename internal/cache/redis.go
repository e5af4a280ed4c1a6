package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gheider394-beep/2-sub000/internal/config"
	"github.com/gheider394-beep/2-sub000/internal/db"
)

// CounterTTL bounds how long cached counters live without being touched.
const CounterTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

func (c *RedisCache) Decr(ctx context.Context, key string) (int64, error) {
	return c.Client.Decr(ctx, key).Result()
}

// KeyForReactionCount generates the Redis key for a subject's reaction count.
func (c *RedisCache) KeyForReactionCount(ref db.SubjectRef) string {
	if ref.PostID != nil {
		return fmt.Sprintf("reactions:count:post:%d", *ref.PostID)
	}
	return fmt.Sprintf("reactions:count:comment:%d", *ref.CommentID)
}

// KeyForParticipantCount generates the Redis key for an idea post's
// participant count.
func (c *RedisCache) KeyForParticipantCount(postID uint64) string {
	return fmt.Sprintf("participants:count:%d", postID)
}

// KeyForSession generates the Redis key holding a session token's user id.
func (c *RedisCache) KeyForSession(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// SetCount overwrites a counter and refreshes its TTL.
func (c *RedisCache) SetCount(ctx context.Context, key string, count int64) error {
	return c.Client.Set(ctx, key, count, CounterTTL).Err()
}

// GetCount reads a counter. A cache miss returns ok=false, not an error;
// hits refresh the TTL since the subject is evidently active.
func (c *RedisCache) GetCount(ctx context.Context, key string) (int64, bool, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat garbage as a miss
	}
	_ = c.Client.Expire(ctx, key, CounterTTL).Err()
	return n, true, nil
}

// BumpCount adjusts a counter by delta (best-effort) and refreshes its TTL.
// Only applied when the key already exists so a stale zero is never minted.
func (c *RedisCache) BumpCount(ctx context.Context, key string, delta int64) {
	exists, err := c.Client.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	_ = c.Client.IncrBy(ctx, key, delta).Err()
	_ = c.Client.Expire(ctx, key, CounterTTL).Err()
}
