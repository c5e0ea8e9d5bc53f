package types

import "time"

// RespondentType classifies who filled in a response.
type RespondentType string

const (
	RespondentStudent  RespondentType = "student"
	RespondentFaculty  RespondentType = "faculty"
	RespondentStaff    RespondentType = "staff"
	RespondentGraduate RespondentType = "graduate"
)

func (r RespondentType) IsValid() bool {
	switch r {
	case RespondentStudent, RespondentFaculty, RespondentStaff, RespondentGraduate:
		return true
	}
	return false
}

// ResponseStatus tracks whether a response has been submitted.
type ResponseStatus string

const (
	ResponseStatusDraft     ResponseStatus = "Draft"
	ResponseStatusSubmitted ResponseStatus = "Submitted"
)

// FeedbackResponse is one respondent's submission against one form.
type FeedbackResponse struct {
	ID               string         `json:"id"`
	FormID           string         `json:"form_id"`
	RespondentUserID string         `json:"respondent_user_id"`
	RespondentType   RespondentType `json:"respondent_type"`
	FacultyID        *string        `json:"faculty_id,omitempty"`
	ResponseStatus   ResponseStatus `json:"response_status"`
	SubmittedTime    *time.Time     `json:"submitted_time,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Answers          []AnswerDetail `json:"answers,omitempty"`
}

// AnswerDetail is one answer to one question. Exactly one of AnswerRating or
// AnswerText is set, depending on the question type.
type AnswerDetail struct {
	ResponseID   string  `json:"response_id,omitempty"`
	QuestionID   string  `json:"question_id"`
	AnswerRating *int    `json:"answer_rating,omitempty"`
	AnswerText   *string `json:"answer_text,omitempty"`
}

// AnswerInput is one answer as received on the wire.
type AnswerInput struct {
	QuestionID   string  `json:"question_id" binding:"required"`
	AnswerRating *int    `json:"answer_rating,omitempty"`
	AnswerText   *string `json:"answer_text,omitempty"`
}

// SubmitRequest is the body of POST /:id/submit.
type SubmitRequest struct {
	FacultyID *string       `json:"faculty_id,omitempty"`
	Answers   []AnswerInput `json:"answers" binding:"dive"`
}

// DraftRequest is the body of PUT /:id/draft.
type DraftRequest struct {
	FacultyID *string       `json:"faculty_id,omitempty"`
	Answers   []AnswerInput `json:"answers" binding:"dive"`
}

// Respondent identifies the authenticated user filling in a form.
type Respondent struct {
	UserID string
	Type   RespondentType
}

// ResponseFilter narrows response listings.
type ResponseFilter struct {
	FormID    string
	FacultyID *string
	Status    *ResponseStatus
	Limit     int
	Offset    int
}

// Faculty is an entry of the rating-target dropdown.
type Faculty struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	DepartmentID *string `json:"department_id,omitempty"`
	IsActive     bool    `json:"is_active"`
}
