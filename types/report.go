package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuestionReport aggregates the answers given to one question.
type QuestionReport struct {
	QuestionID   string          `json:"question_id"`
	QuestionText string          `json:"question_text"`
	QuestionType QuestionType    `json:"question_type"`
	AnswerCount  int             `json:"answer_count"`
	Average      decimal.Decimal `json:"average,omitempty"`
	Distribution map[int]int     `json:"distribution,omitempty"`
	YesCount     int             `json:"yes_count,omitempty"`
	NoCount      int             `json:"no_count,omitempty"`
	TextAnswers  []string        `json:"text_answers,omitempty"`
}

// AreaReport groups question reports the same way the form groups questions.
type AreaReport struct {
	AreaName  string           `json:"area_name"`
	Average   decimal.Decimal  `json:"average"`
	Questions []QuestionReport `json:"questions"`
}

// FormReport is the aggregated view of every submitted response to a form.
type FormReport struct {
	FormID         string          `json:"form_id"`
	FormType       FormType        `json:"form_type"`
	Title          string          `json:"title"`
	FacultyID      *string         `json:"faculty_id,omitempty"`
	ResponseCount  int             `json:"response_count"`
	OverallAverage decimal.Decimal `json:"overall_average"`
	Areas          []AreaReport    `json:"areas"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// SubmittedAnswer is one persisted answer joined with its response metadata,
// the row shape used for aggregation and CSV export.
type SubmittedAnswer struct {
	ResponseID       string
	RespondentUserID string
	RespondentType   RespondentType
	FacultyID        *string
	SubmittedTime    time.Time
	QuestionID       string
	AnswerRating     *int
	AnswerText       *string
}

// ReportArchive is returned after a CSV export is stored in object storage.
type ReportArchive struct {
	Key         string    `json:"key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ReportEmailRequest is the body of the report email endpoint.
type ReportEmailRequest struct {
	To        string  `json:"to" binding:"required,email,max=255"`
	FacultyID *string `json:"faculty_id,omitempty"`
}
