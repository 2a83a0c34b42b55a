package security

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all responses.
// enableHSTS should only be set when the service is served over HTTPS.
func SecurityHeadersMiddleware(enableHSTS bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Screening results are health data
		if !strings.HasPrefix(c.Request.URL.Path, "/swagger/") {
			c.Header("Cache-Control", "no-store")
			c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}

		if enableHSTS {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
