package middleware

import (
	"errors"
	"strings"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity under UserIDKey, UserRoleKey and DepartmentIDKey.
func AuthMiddleware(validator Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		authHeader := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || token == "" || token == authHeader {
			_ = c.Error(apperrors.Unauthorized("missing_token", "Authorization required"))
			c.Abort()
			return
		}

		claims, err := validator.Validate(token)
		if err != nil {
			log.Warnw("Invalid JWT token",
				"error", err,
				"token", logger.MaskJWT(token),
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())

			if errors.Is(err, ErrTokenExpired) {
				_ = c.Error(apperrors.Unauthorized("token_expired", "Your session has expired"))
			} else {
				_ = c.Error(apperrors.Unauthorized("invalid_token", "Invalid authentication token"))
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		if claims.DepartmentID != "" {
			c.Set(DepartmentIDKey, claims.DepartmentID)
		}
		c.Next()
	}
}
