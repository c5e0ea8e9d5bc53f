package feedback

import "fmt"

// Reason classifies a ValidationError.
type Reason string

const (
	ReasonMissingFaculty  Reason = "missing_faculty"
	ReasonMissingAnswer   Reason = "missing_answer"
	ReasonOutOfRange      Reason = "out_of_range"
	ReasonInvalidChoice   Reason = "invalid_choice"
	ReasonUnknownQuestion Reason = "unknown_question"
	ReasonDuplicate       Reason = "duplicate_answer"
	ReasonKindMismatch    Reason = "kind_mismatch"
	ReasonDefinition      Reason = "invalid_definition"
)

// MsgSelectFaculty is shown when a faculty feedback submission has no target.
const MsgSelectFaculty = "Please select a faculty member"

// ValidationError describes the first problem found in a submission or definition.
// Message is meant to be shown to the respondent as is.
type ValidationError struct {
	Reason     Reason
	QuestionID string
	Message    string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Incomplete reports whether the error is about a missing requirement rather
// than malformed input.
func (e *ValidationError) Incomplete() bool {
	return e.Reason == ReasonMissingFaculty || e.Reason == ReasonMissingAnswer
}

func newValidationError(reason Reason, questionID, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Reason:     reason,
		QuestionID: questionID,
		Message:    fmt.Sprintf(format, args...),
	}
}
