package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/evyataryagoni/geotarget/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "ratelimit:"
	redisCallTimeout = 100 * time.Millisecond
)

// fixedWindowScript increments the window counter and arms its expiry on first use.
// KEYS[1] = counter key, ARGV[1] = ttl in seconds. Returns the new count.
var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter shares a fixed-window budget across every instance using the same Redis.
//
// Keys look like "ratelimit:{key}:{window}". When Redis cannot be reached the
// request is allowed, so a Redis outage never takes the storefront endpoint down.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewRedisLimiter connects to Redis and allows limit requests per window for each key
func NewRedisLimiter(addr, password string, db int, limit int, window time.Duration, log *logger.Logger) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	return NewRedisLimiterFromClient(client, limit, window, log), nil
}

// NewRedisLimiterFromClient wraps an existing client; the limiter owns it afterwards
func NewRedisLimiterFromClient(client *redis.Client, limit int, window time.Duration, log *logger.Logger) *RedisLimiter {
	if log == nil {
		log = logger.NewDefault()
	}
	if limit <= 0 {
		limit = 1
	}
	if window < time.Second {
		window = time.Second
	}

	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
		logger: log.WithComponent("RedisLimiter"),
	}
}

// Allow counts the request in key's current window
func (rl *RedisLimiter) Allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	windowSeconds := int64(rl.window / time.Second)
	slot := rl.now().Unix() / windowSeconds
	redisKey := fmt.Sprintf("%s%s:%d", redisKeyPrefix, key, slot)

	count, err := fixedWindowScript.Run(ctx, rl.client, []string{redisKey}, windowSeconds*2).Int64()
	if err != nil {
		rl.logger.Warn().Err(err).Str("key", key).Msg("Rate limit check failed, allowing request")
		return true
	}

	return count <= rl.limit
}

// Close closes the Redis connection
func (rl *RedisLimiter) Close() error {
	if rl.client != nil {
		return rl.client.Close()
	}
	return nil
}
