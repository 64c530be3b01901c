package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/kanoon-backend/internal/http/response"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/platform/redis"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (redis.Decision, error)
	Limit() int
}

// RateLimit applies limiter per client IP. A nil limiter disables it, and
// limiter errors let the request through.
func RateLimit(log *logger.Logger, limiter Limiter) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("middleware", "RateLimit")
	return func(c *gin.Context) {
		d, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("Rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if d.Remaining >= 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		}
		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.ResetIn.Seconds()))))
			response.RespondErrorMessage(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again later.", nil)
			return
		}
		c.Next()
	}
}
