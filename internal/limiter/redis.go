package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounter keeps window counters in Redis
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr bumps key and starts its window only when the key has no expiry yet,
// so the window does not slide while requests keep arriving. EXPIRE NX would
// need Redis 7; reading the TTL keeps this working on Redis 6.
func (s *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.Pipeline()

	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	if needsExpiry(ttl.Val()) {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}

	return incr.Val(), nil
}

// needsExpiry reports a TTL reply for a key that exists without an expiry
func needsExpiry(ttl time.Duration) bool {
	return ttl == noExpiry
}

// noExpiry is the TTL reply for a key without an expiry
const noExpiry = time.Duration(-1)

func (s *RedisCounter) TTL(ctx context.Context, key string) (time.Duration, error) {
	return s.client.TTL(ctx, key).Result()
}
