package middleware

import (
	"slices"
	"strings"
	"time"

	"github.com/campusdesk/swo-feedback/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the configured frontend origins. A "*" entry allows
// any origin; entries like "*.college.edu" match subdomains.
func CORSMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Authorization",
			"X-Requested-With",
			"Accept",
			requestIDHeader,
		},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		// credentials cannot be combined with a wildcard origin
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
		return cors.New(corsConfig)
	}

	origins := cfg.AllowedOrigins
	corsConfig.AllowOriginFunc = func(origin string) bool {
		return originAllowed(origins, origin)
	}
	return cors.New(corsConfig)
}

func originAllowed(allowed []string, origin string) bool {
	for _, o := range allowed {
		if o == origin {
			return true
		}
		if strings.HasPrefix(o, "*.") && strings.HasSuffix(origin, strings.TrimPrefix(o, "*")) {
			return true
		}
	}
	return false
}
