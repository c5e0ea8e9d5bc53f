package services

import (
	"errors"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/internal/feedback"
	"github.com/campusdesk/swo-feedback/internal/store"
)

// storeError translates store sentinels into application errors.
func storeError(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NotFound(entity, id)
	case errors.Is(err, store.ErrHasResponses):
		return apperrors.NewConflictError("Form already has responses", err.Error())
	case errors.Is(err, store.ErrConflict):
		return apperrors.NewConflictError(entity+" conflicts with existing data", err.Error())
	default:
		return apperrors.NewDatabaseError(err)
	}
}

// validationError maps a contract violation to the error shown to the user.
// Missing requirements become 422 with the message verbatim, malformed input 400.
func validationError(err error) error {
	var verr *feedback.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	if verr.Incomplete() {
		return apperrors.IncompleteResponse(verr.Message)
	}
	return apperrors.ValidationFailed(verr.Message, string(verr.Reason))
}
