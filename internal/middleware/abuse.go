package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxUserAgentLength = 512

var botMarkers = []string{
	"bot", "crawler", "spider", "scraper",
	"curl", "wget", "python-requests", "go-http-client",
}

// AbuseGuard rejects requests whose User-Agent is oversized or carries
// script injection, and known automation clients probing admin paths.
// Denials are plain 403s with no detail.
func AbuseGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		userAgent := c.GetHeader("User-Agent")

		if len(userAgent) > maxUserAgentLength || strings.Contains(strings.ToLower(userAgent), "<script") {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		if isBotUA(userAgent) && adminTargeted(c.Request.URL.Path) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}

func isBotUA(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	for _, marker := range botMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func adminTargeted(path string) bool {
	return strings.HasPrefix(path, "/admin") || strings.HasPrefix(path, "/api/admin")
}
