package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hqtest/courses-server/pkg/cache"
	"github.com/hqtest/courses-server/pkg/response"
)

// RateLimiter implements a fixed-window limiter keyed by client IP. Counters live
// in the cache so several instances sharing Redis enforce one budget.
type RateLimiter struct {
	store    cache.Client
	logger   *slog.Logger
	rate     int // requests per window
	duration time.Duration
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per duration.
// A non-positive rate disables limiting.
func NewRateLimiter(store cache.Client, logger *slog.Logger, rate int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		store:    store,
		logger:   logger,
		rate:     rate,
		duration: duration,
		now:      time.Now,
	}
}

// Middleware returns a Gin middleware that enforces rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rate <= 0 {
			c.Next()
			return
		}

		allowed, remaining, err := rl.allow(c, c.ClientIP())
		if err != nil {
			// counters unavailable: let the request through
			rl.logger.WarnContext(c.Request.Context(), "rate limiter unavailable", slog.String("error", err.Error()))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(rl.duration.Seconds())))
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(c *gin.Context, clientKey string) (bool, int, error) {
	ctx := c.Request.Context()
	window := rl.now().UnixNano() / int64(rl.duration)
	key := fmt.Sprintf("ratelimit:%s:%d", clientKey, window)

	count, err := rl.store.Increment(ctx, key)
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := rl.store.Expire(ctx, key, rl.duration); err != nil {
			return false, 0, err
		}
	}

	remaining := rl.rate - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return count <= int64(rl.rate), remaining, nil
}
