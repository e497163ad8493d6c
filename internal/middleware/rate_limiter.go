package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig defines rate limiting rules
type RateLimiterConfig struct {
	MaxRequests int           // Maximum requests allowed in the window
	Window      time.Duration // Fixed window length
	Prefix      string        // Redis key namespace, e.g. "swap-create"
}

// RateLimiter is a fixed-window counter in Redis, keyed by the authenticated
// user when there is one and by client IP otherwise.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimiterConfig
}

func NewRateLimiter(redisClient *redis.Client, config RateLimiterConfig) *RateLimiter {
	if config.Prefix == "" {
		config.Prefix = "default"
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Middleware returns a Gin middleware function for rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetString("user_id")
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}

		allowed, retryAfter, err := rl.CheckLimit(c.Request.Context(), subject)
		if err != nil {
			// Fail open: Redis trouble must not take the API down.
			logger.Log.Warn("Rate limiter unavailable", zap.String("subject", subject), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests. Please try again later.",
				},
				"retry_after": int(retryAfter.Seconds()),
			})
			return
		}

		c.Next()
	}
}

// CheckLimit increments the subject's counter for the current window.
// Returns: (allowed bool, retryAfter duration, error)
func (rl *RateLimiter) CheckLimit(ctx context.Context, subject string) (bool, time.Duration, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", rl.config.Prefix, subject)

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}

	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.config.Window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(rl.config.MaxRequests) {
		ttl, err := rl.redis.TTL(ctx, key).Result()
		if err != nil || ttl <= 0 {
			ttl = rl.config.Window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}

// Reset clears the subject's counter.
func (rl *RateLimiter) Reset(ctx context.Context, subject string) error {
	return rl.redis.Del(ctx, fmt.Sprintf("ratelimit:%s:%s", rl.config.Prefix, subject)).Err()
}
