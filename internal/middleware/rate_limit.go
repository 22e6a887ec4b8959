package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter is a fixed-window per-user limiter backed by Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

// NewMatchingRateLimiter limits the test-matching endpoint to limit calls per user per hour.
func NewMatchingRateLimiter(redisClient *redis.Client, limit int) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:dietary_matching",
	})
}

// Enabled reports whether the limiter has a Redis backend and a positive limit.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.redis != nil && rl.config.Limit > 0
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting.
// A limiter without Redis lets every request through.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Enabled() {
			c.Next()
			return
		}

		userID, exists := c.Get(ContextUserID)
		if !exists {
			abort(c, http.StatusUnauthorized, "user not authenticated")
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), fmt.Sprintf("%v", userID))
		if err != nil {
			// Fail open when Redis is unavailable
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
				"retry_after": int(resetTime.Sub(rl.now()).Seconds()),
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) key(userID string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, userID, windowStart.Unix())
}

// IsAllowed counts a request from the given user against the current window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, userID string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	key := rl.key(userID, windowStart)

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// GetRemainingRequests returns the number of remaining requests for a user
// without counting a request.
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, userID string) (int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	resetTime := windowStart.Add(rl.config.Window)

	count, err := rl.redis.Get(ctx, rl.key(userID, windowStart)).Int()
	if err == redis.Nil {
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}
