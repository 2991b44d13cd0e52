package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig describes one limited endpoint
type RateLimitConfig struct {
	// Allowed requests per window
	Limit int
	// Window size in seconds
	Window int
	// Custom key function (defaults to client IP)
	KeyFunc func(*gin.Context) string
}

// RateLimitResult is the outcome of one Allow call
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   int64
	Limit     int
}

// RedisRateLimiter throttles requests with a fixed window counter in Redis.
// The counter and its expiry are set atomically through a Lua script so that
// concurrent logins cannot race past the limit.
type RedisRateLimiter struct {
	redis *redis.Client
}

// NewRedisRateLimiter creates a Redis-backed limiter
func NewRedisRateLimiter(redisClient *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{redis: redisClient}
}

// Allow checks whether the request identified by key may pass
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, config *RateLimitConfig) (*RateLimitResult, error) {
	now := time.Now().Unix()
	window := now / int64(config.Window)
	windowKey := fmt.Sprintf("ratelimit:fixed:%s:%d", key, window)

	script := `
		local current = tonumber(redis.call('GET', KEYS[1]) or 0)
		local limit = tonumber(ARGV[1])
		local ttl = tonumber(ARGV[2])

		local allowed = current < limit
		local remaining = limit - current - 1

		if allowed then
			redis.call('INCR', KEYS[1])
			if current == 0 then
				redis.call('EXPIRE', KEYS[1], ttl)
			end
		else
			remaining = -1
		end

		return {allowed and 1 or 0, remaining, limit}
	`

	result, err := r.redis.Eval(ctx, script, []string{windowKey},
		config.Limit,
		config.Window,
	).Result()
	if err != nil {
		return nil, err
	}

	values := result.([]interface{})
	return &RateLimitResult{
		Allowed:   values[0].(int64) == 1,
		Remaining: int(values[1].(int64)),
		ResetAt:   (window + 1) * int64(config.Window),
		Limit:     int(values[2].(int64)),
	}, nil
}

// RateLimit returns a gin middleware enforcing the given config. When Redis
// is unreachable the request is let through: throttling is a guard, not a
// dependency.
func RateLimit(limiter *RedisRateLimiter, config *RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if config.KeyFunc != nil {
			key = config.KeyFunc(c)
		}

		result, err := limiter.Allow(c.Request.Context(), key, config)
		if err != nil {
			log.Printf("[RateLimit] check failed for %s: %v", key, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(result.Remaining, 0)))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
