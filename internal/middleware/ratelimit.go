package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"prismwriting/api/internal/config"
	"prismwriting/api/internal/ratelimit"
)

// QuotePath is the designated expensive endpoint with its own, lower
// request budget.
const QuotePath = "/api/translation-quote"

// RateLimit applies the fixed-window counter to every request,
// authenticated or not. Quota exhaustion answers 429 with an empty
// body and Retry-After; allowed requests carry the remaining budget in
// headers.
func RateLimit(limiter *ratelimit.Limiter, cfg config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cfg.Limit
		key := "ip:" + ClientIP(c)
		if c.Request.Method == http.MethodPost && c.Request.URL.Path == QuotePath {
			// The quote budget is tracked apart from general traffic so
			// browsing cannot starve quote submission or vice versa.
			limit = cfg.QuoteLimit
			key = "quote:" + ClientIP(c)
		}

		res := limiter.Allow(c.Request.Context(), key, limit)

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			h.Set("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}

		c.Next()
	}
}
