package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shopcart-api/internal/config"
)

const rateLimitWindow = time.Minute

// RateLimit implements a fixed one-minute window per client IP using Redis.
// Requests are let through when Redis is unavailable.
func RateLimit(cfg *config.Config, redisClient *redis.Client, logger *logrus.Logger) gin.HandlerFunc {
	limit := cfg.Security.RateLimitPerMinute

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(ctx, key)
		ttl := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		// First hit of a window, or a key that lost its expiry
		reset := ttl.Val()
		if reset < 0 {
			reset = rateLimitWindow
			if err := redisClient.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
				logger.WithError(err).Warn("Failed to set rate limit window")
			}
		}

		current := int(incr.Val())
		remaining := limit - current
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

		if current > limit {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(reset.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
