package middleware

import (
	"strings"

	"github.com/campusdesk/swo-feedback/config"
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the hardening headers. API responses carry
// respondent data and are never cached; HSTS is only sent in production.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	production := cfg.IsProduction()
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			h.Set("Cache-Control", "no-store")
		}
		if production {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
