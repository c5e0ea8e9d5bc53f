package store

import (
	"context"
	"time"

	"github.com/campusdesk/swo-feedback/types"
)

// StatusChange describes the outcome of a status toggle.
type StatusChange struct {
	Form        types.FeedbackForm
	Previous    types.FormStatus
	Deactivated []string
	// Changed is false when the form already had the requested status.
	Changed bool
}

// FormStore persists form definitions and enforces the single Active form per scope.
type FormStore interface {
	// CreateForm inserts the form with its areas and questions in one transaction.
	// When the form is created Active, Active siblings in its scope are deactivated
	// and their ids returned.
	CreateForm(ctx context.Context, detail *types.FormDetail) ([]string, error)
	GetForm(ctx context.Context, id string) (*types.FeedbackForm, error)
	GetFormDetail(ctx context.Context, id string) (*types.FormDetail, error)
	ListForms(ctx context.Context, filter types.FormFilter) ([]types.FeedbackForm, error)
	// UpdateForm applies the non-nil metadata of update and, when schema is not
	// nil, replaces the form's areas and questions. Both happen in one
	// transaction holding the form row lock, which submissions share, so a
	// response cannot slip in between the response check and the swap.
	// Replacing the schema of a form with responses yields ErrHasResponses.
	UpdateForm(ctx context.Context, id string, update types.FormUpdate, schema *SchemaReplacement) (*types.FeedbackForm, error)
	SetStatus(ctx context.Context, id string, status types.FormStatus) (*StatusChange, error)
}

// SchemaReplacement is a new area/question layout for an existing form.
type SchemaReplacement struct {
	Areas     []types.FeedbackArea
	Questions []types.FeedbackQuestion
}

// ResponseStore persists responses and their answers.
type ResponseStore interface {
	// SaveDraft upserts the respondent's Draft for (form, respondent, faculty) and
	// replaces its answers. A response that is already Submitted yields ErrConflict.
	SaveDraft(ctx context.Context, resp *types.FeedbackResponse) (*types.FeedbackResponse, error)
	// Submit stores the response as Submitted, promoting an existing Draft. A second
	// submission for the same (form, respondent, faculty) yields ErrConflict.
	// SaveDraft and Submit hold a share lock on the form row while writing.
	Submit(ctx context.Context, resp *types.FeedbackResponse) (*types.FeedbackResponse, error)
	GetResponse(ctx context.Context, id string) (*types.FeedbackResponse, error)
	FindExisting(ctx context.Context, formID, respondentUserID string, facultyID *string) (*types.FeedbackResponse, error)
	ListResponses(ctx context.Context, filter types.ResponseFilter) ([]types.FeedbackResponse, int, error)
	ListSubmittedAnswers(ctx context.Context, formID string, facultyID *string) ([]types.SubmittedAnswer, error)
	DeleteStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error)
}

// FacultyStore reads the faculty directory used for rating targets.
type FacultyStore interface {
	ListActive(ctx context.Context, departmentID *string) ([]types.Faculty, error)
	GetFaculty(ctx context.Context, id string) (*types.Faculty, error)
}
