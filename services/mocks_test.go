package services

import (
	"context"
	"sync"
	"time"

	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/stretchr/testify/mock"
)

type MockFormStore struct {
	mock.Mock
}

func (m *MockFormStore) CreateForm(ctx context.Context, detail *types.FormDetail) ([]string, error) {
	args := m.Called(ctx, detail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFormStore) GetForm(ctx context.Context, id string) (*types.FeedbackForm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackForm), args.Error(1)
}

func (m *MockFormStore) GetFormDetail(ctx context.Context, id string) (*types.FormDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FormDetail), args.Error(1)
}

func (m *MockFormStore) ListForms(ctx context.Context, filter types.FormFilter) ([]types.FeedbackForm, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FeedbackForm), args.Error(1)
}

func (m *MockFormStore) UpdateForm(ctx context.Context, id string, update types.FormUpdate, schema *store.SchemaReplacement) (*types.FeedbackForm, error) {
	args := m.Called(ctx, id, update, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackForm), args.Error(1)
}

func (m *MockFormStore) SetStatus(ctx context.Context, id string, status types.FormStatus) (*store.StatusChange, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.StatusChange), args.Error(1)
}

type MockResponseStore struct {
	mock.Mock
}

func (m *MockResponseStore) SaveDraft(ctx context.Context, resp *types.FeedbackResponse) (*types.FeedbackResponse, error) {
	args := m.Called(ctx, resp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackResponse), args.Error(1)
}

func (m *MockResponseStore) Submit(ctx context.Context, resp *types.FeedbackResponse) (*types.FeedbackResponse, error) {
	args := m.Called(ctx, resp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackResponse), args.Error(1)
}

func (m *MockResponseStore) GetResponse(ctx context.Context, id string) (*types.FeedbackResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackResponse), args.Error(1)
}

func (m *MockResponseStore) FindExisting(ctx context.Context, formID, respondentUserID string, facultyID *string) (*types.FeedbackResponse, error) {
	args := m.Called(ctx, formID, respondentUserID, facultyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackResponse), args.Error(1)
}

func (m *MockResponseStore) ListResponses(ctx context.Context, filter types.ResponseFilter) ([]types.FeedbackResponse, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.FeedbackResponse), args.Int(1), args.Error(2)
}

func (m *MockResponseStore) ListSubmittedAnswers(ctx context.Context, formID string, facultyID *string) ([]types.SubmittedAnswer, error) {
	args := m.Called(ctx, formID, facultyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.SubmittedAnswer), args.Error(1)
}

func (m *MockResponseStore) DeleteStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockFacultyStore struct {
	mock.Mock
}

func (m *MockFacultyStore) ListActive(ctx context.Context, departmentID *string) ([]types.Faculty, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Faculty), args.Error(1)
}

func (m *MockFacultyStore) GetFaculty(ctx context.Context, id string) (*types.Faculty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Faculty), args.Error(1)
}

// recordingPublisher keeps published events in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []types.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event types.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Types() []types.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
