package handlers

import (
	"net/http"
	"strings"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/middleware"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/gin-gonic/gin"
)

// FormCategory binds a route group to one form type. Handlers read it back
// with formTypeFromContext.
func FormCategory(formType types.FormType) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.FormTypeKey, formType)
		c.Next()
	}
}

func formTypeFromContext(c *gin.Context) (types.FormType, bool) {
	v, ok := c.Get(middleware.FormTypeKey)
	if !ok {
		return "", false
	}
	ft, ok := v.(types.FormType)
	return ft, ok && ft.IsValid()
}

// mustFormType records an error and returns false when the route has no category.
func mustFormType(c *gin.Context) (types.FormType, bool) {
	ft, ok := formTypeFromContext(c)
	if !ok {
		_ = c.Error(apperrors.NotFound("Form category", c.FullPath()))
	}
	return ft, ok
}

func getUserIDFromContext(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// respondentFromContext maps the caller's role onto a respondent type.
func respondentFromContext(c *gin.Context) (types.Respondent, bool) {
	userID := getUserIDFromContext(c)
	if userID == "" {
		_ = c.Error(apperrors.Unauthorized("missing_auth", "Authentication required"))
		return types.Respondent{}, false
	}
	rt := types.RespondentType(c.GetString(middleware.UserRoleKey))
	if !rt.IsValid() {
		_ = c.Error(apperrors.Forbidden("Only students, faculty, staff and graduates can respond", string(rt)))
		return types.Respondent{}, false
	}
	return types.Respondent{UserID: userID, Type: rt}, true
}

// bindJSONOrError binds the JSON body and records a validation error on failure.
// Returns false when the caller should return.
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request payload", err.Error()))
		return false
	}
	return true
}

// optionalQuery returns nil for a missing or blank query parameter.
func optionalQuery(c *gin.Context, name string) *string {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil
	}
	return &v
}

func respondOK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, types.APIResponse{Success: true, Data: data, Message: message})
}

func respondData(c *gin.Context, data interface{}) {
	respondOK(c, http.StatusOK, data, "")
}
