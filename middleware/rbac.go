package middleware

import (
	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only when the authenticated role is one of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		if role == "" {
			_ = c.Error(apperrors.Unauthorized("missing_auth", "Authentication required"))
			c.Abort()
			return
		}
		if _, ok := allowed[role]; !ok {
			logger.GetLogger().Warnw("Role not permitted",
				"userID", c.GetString(UserIDKey),
				"role", role,
				"path", c.FullPath())
			_ = c.Error(apperrors.Forbidden("Insufficient permissions", "role "+role+" cannot perform this action"))
			c.Abort()
			return
		}
		c.Next()
	}
}
