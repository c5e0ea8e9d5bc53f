package swoclient

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/campusdesk/swo-feedback/internal/feedback"
	"github.com/campusdesk/swo-feedback/types"
)

// MsgSubmitFailed is shown when a submission fails without a server message.
const MsgSubmitFailed = "error submitting feedback"

// SubmitError carries the message to show the respondent after a failed submission.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return e.Message }

func (e *SubmitError) Unwrap() error { return e.Err }

// Session is one respondent's pass through the active form of a scope.
type Session struct {
	client   *Client
	formType types.FormType
	scope    feedback.Scope

	mu        sync.Mutex
	schema    feedback.Schema
	loaded    bool
	answers   *feedback.Collector
	facultyID string
}

// NewSession starts a session for scope. Leave DepartmentID and SemesterID
// nil for the category-wide form.
func NewSession(client *Client, scope feedback.Scope) *Session {
	scope = scope.Normalize()
	return &Session{
		client:   client,
		formType: scope.FormType,
		scope:    scope,
		answers:  feedback.NewCollector(),
	}
}

// Load fetches the active form and clears any previous answers.
func (s *Session) Load(ctx context.Context) error {
	schema, err := s.client.LoadActiveForm(ctx, s.scope)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers.Reset()
	s.facultyID = ""
	if err != nil {
		s.schema = feedback.Schema{}
		s.loaded = false
		return err
	}
	s.schema = schema
	s.loaded = true
	return nil
}

// Schema returns the loaded form.
func (s *Session) Schema() feedback.Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema
}

// Answers exposes the collector the UI writes into.
func (s *Session) Answers() *feedback.Collector {
	return s.answers
}

func (s *Session) SelectFaculty(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facultyID = strings.TrimSpace(id)
}

func (s *Session) SelectedFaculty() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.facultyID
}

// Submit validates the collected answers locally and posts them. A local
// validation failure returns a *feedback.ValidationError without touching the
// network. Server and transport failures return a *SubmitError. On success the
// answers and the faculty selection are cleared.
func (s *Session) Submit(ctx context.Context) (*types.FeedbackResponse, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, ErrNoActiveForm
	}
	schema := s.schema
	var faculty *string
	if s.facultyID != "" {
		id := s.facultyID
		faculty = &id
	}
	s.mu.Unlock()

	req, err := feedback.BuildSubmission(schema, s.answers, faculty)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Submit(ctx, s.formType, schema.FormID, req)
	if err != nil {
		return nil, submitError(err)
	}

	s.mu.Lock()
	s.answers.Reset()
	s.facultyID = ""
	s.mu.Unlock()
	return resp, nil
}

// SaveDraft stores what has been answered so far.
func (s *Session) SaveDraft(ctx context.Context) (*types.FeedbackResponse, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, ErrNoActiveForm
	}
	schema := s.schema
	req := types.DraftRequest{}
	if s.facultyID != "" {
		id := s.facultyID
		req.FacultyID = &id
	}
	s.mu.Unlock()

	answers, err := feedback.BuildDraft(schema, s.answers)
	if err != nil {
		return nil, err
	}
	req.Answers = answers
	return s.client.SaveDraft(ctx, s.formType, schema.FormID, req)
}

func submitError(err error) *SubmitError {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &SubmitError{Message: apiErr.Message, Err: err}
	}
	return &SubmitError{Message: MsgSubmitFailed, Err: err}
}
