package middleware

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error recorded with c.Error as the standard
// failure envelope. Handlers must not write a body when they record an error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		err := last.Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			status := appErr.GetHTTPStatus()
			logger.LogHTTPError(c, err, status, string(appErr.Type)+" error")

			resp := types.ErrorResponse{
				Success: false,
				Message: appErr.Message,
				Type:    string(appErr.Type),
				Code:    appErr.Code,
			}
			if resp.Code == "" {
				resp.Code = strconv.Itoa(status)
			}
			if appErr.Detail != "" && exposeDetail(appErr.Type) {
				resp.Details = appErr.Detail
			}
			c.JSON(status, resp)
			return
		}

		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Success: false,
				Message: "Invalid request body",
				Type:    string(apperrors.ValidationError),
				Code:    strconv.Itoa(http.StatusBadRequest),
				Details: err.Error(),
			})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		resp := types.ErrorResponse{
			Success: false,
			Message: "Internal Server Error",
			Type:    string(apperrors.ServerError),
			Code:    strconv.Itoa(http.StatusInternalServerError),
		}
		if gin.IsDebugging() {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// exposeDetail limits which error details reach the client. Database and
// server details stay in the logs.
func exposeDetail(t apperrors.ErrorType) bool {
	switch t {
	case apperrors.DatabaseError, apperrors.ServerError, apperrors.ExternalServiceError:
		return gin.IsDebugging()
	}
	return true
}
