package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

// ByClientIP buckets requests per client address.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByOwner buckets authenticated requests per owner and falls back to the
// client address when no owner is on the context.
func ByOwner(c *gin.Context) string {
	if ownerID, ok := UserIDFromCtx(c.Request.Context()); ok {
		return "owner:" + ownerID
	}
	return ByClientIP(c)
}

// NewMemoryLimiter builds an in-memory limiter from a formatted rate such as "5-M" or "100-H".
func NewMemoryLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit rejects requests with 429 once the bucket chosen by key is exhausted.
func RateLimit(l *limiter.Limiter, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		bucket := key(c)

		state, err := l.Get(c.Request.Context(), bucket)
		if err != nil {
			logger.Error("Rate limit lookup failed", slog.String("bucket", bucket), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(state.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(state.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(state.Reset, 10))

		if state.Reached {
			logger.Warn("Rate limit exceeded", slog.String("bucket", bucket), slog.Int64("limit", state.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}
