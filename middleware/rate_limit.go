package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SubmitRateLimiter caps submissions per user and form type in a fixed window
// kept in Redis. Unauthenticated requests are keyed by client IP. Redis
// failures let the request through.
func SubmitRateLimiter(rdb redis.UniversalClient, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		key := submitLimitKey(c)

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.GetLogger().Warnw("Rate limit check failed", "key", key, "error", err)
			c.Next()
			return
		}

		count := incr.Val()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))

		if count > int64(limit) {
			ttl, err := rdb.TTL(ctx, key).Result()
			if err != nil || ttl <= 0 {
				ttl = window
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			_ = c.Error(apperrors.RateLimitExceeded("Too many submissions. Please try again later.", int(ttl.Seconds())))
			c.Abort()
			return
		}

		remaining := limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}

func submitLimitKey(c *gin.Context) string {
	subject := c.GetString(UserIDKey)
	if subject == "" {
		subject = "ip:" + getClientIP(c)
	}
	if formType, ok := c.Get(FormTypeKey); ok {
		return fmt.Sprintf("ratelimit:submit:%v:%s", formType, subject)
	}
	return "ratelimit:submit:" + subject
}

// getClientIP prefers proxy headers over the socket address.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
