// Package errors defines the typed errors handlers record with c.Error and the
// error middleware renders.
package errors

import (
	"fmt"
	"net/http"

	"github.com/campusdesk/swo-feedback/logger"
)

type ErrorType string

const (
	ValidationError       ErrorType = "VALIDATION_ERROR"
	NotFoundError         ErrorType = "NOT_FOUND"
	AuthError             ErrorType = "AUTHENTICATION_ERROR"
	DatabaseError         ErrorType = "DATABASE_ERROR"
	ServerError           ErrorType = "SERVER_ERROR"
	ForbiddenError        ErrorType = "FORBIDDEN"
	ConflictError         ErrorType = "CONFLICT"
	RateLimitError        ErrorType = "RATE_LIMIT_EXCEEDED"
	ExternalServiceError  ErrorType = "EXTERNAL_SERVICE_ERROR"
	FormInactiveError     ErrorType = "FORM_INACTIVE"
	IncompleteAnswerError ErrorType = "INCOMPLETE_RESPONSE"
)

var statusByType = map[ErrorType]int{
	ValidationError:       http.StatusBadRequest,
	IncompleteAnswerError: http.StatusUnprocessableEntity,
	NotFoundError:         http.StatusNotFound,
	AuthError:             http.StatusUnauthorized,
	ForbiddenError:        http.StatusForbidden,
	ConflictError:         http.StatusConflict,
	FormInactiveError:     http.StatusConflict,
	RateLimitError:        http.StatusTooManyRequests,
	ExternalServiceError:  http.StatusBadGateway,
}

// AppError is an error with a client-facing type and message. Raw keeps the
// underlying cause for logs and errors.Is.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail == "" {
		return string(e.Type) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
}

func (e *AppError) Unwrap() error { return e.Raw }

// GetHTTPStatus returns the status the error should be rendered with.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return statusFor(e.Type)
}

func statusFor(t ErrorType) int {
	if status, ok := statusByType[t]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func build(t ErrorType, message, detail string, raw error) *AppError {
	return &AppError{Type: t, Message: message, Detail: detail, HTTPStatus: statusFor(t), Raw: raw}
}

func New(errType ErrorType, message string, detail string) *AppError {
	return build(errType, message, detail, nil)
}

// Wrap attaches a type and message to err. A nil err stays nil.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return build(errType, message, err.Error(), err)
}

func NotFound(entity string, id interface{}) *AppError {
	return build(NotFoundError, entity+" not found", fmt.Sprintf("ID: %v", id), nil)
}

func ValidationFailed(message string, details string) *AppError {
	return build(ValidationError, message, details, nil)
}

// IncompleteResponse reports a submission that misses a mandatory answer.
// The message names the first missing requirement so it can be shown verbatim.
func IncompleteResponse(message string) *AppError {
	return build(IncompleteAnswerError, message, "", nil)
}

func AuthenticationFailed(message string) *AppError {
	return build(AuthError, message, "", nil)
}

// Unauthorized is AuthenticationFailed with a machine-readable code such as
// "token_expired".
func Unauthorized(code, message string) *AppError {
	e := build(AuthError, message, "", nil)
	e.Code = code
	return e
}

func Forbidden(message string, details string) *AppError {
	return build(ForbiddenError, message, details, nil)
}

func NewConflictError(message string, detail string) *AppError {
	return build(ConflictError, message, detail, nil)
}

func FormNotActive(formID string) *AppError {
	return build(FormInactiveError, "Feedback form is not active", "Form ID: "+formID, nil)
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return build(RateLimitError, message, fmt.Sprintf("retry after %d seconds", retryAfterSeconds), nil)
}

// NewDatabaseError logs the driver error and hides it from the client.
func NewDatabaseError(err error) *AppError {
	logger.GetLogger().Errorw("Database error", "error", err)
	return build(DatabaseError, "Database operation failed", "Please try again later", err)
}

func InternalServerError(message string) *AppError {
	return build(ServerError, message, "", nil)
}

func ExternalService(service string, err error) *AppError {
	return build(ExternalServiceError, service+" request failed", "", err)
}
