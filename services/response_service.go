package services

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/internal/events"
	"github.com/campusdesk/swo-feedback/internal/feedback"
	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const defaultResponsePageSize = 50

type responseMetrics struct {
	submitted *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	drafts    *prometheus.CounterVec
}

var (
	respMetricsInstance *responseMetrics
	respMetricsOnce     sync.Once
	respDefaultRegistry = prometheus.DefaultRegisterer
)

func newResponseMetrics() *responseMetrics {
	respMetricsOnce.Do(func() {
		respMetricsInstance = &responseMetrics{
			submitted: promauto.With(respDefaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "swo_responses_submitted_total",
				Help: "Total number of submitted feedback responses",
			}, []string{"form_type"}),
			rejected: promauto.With(respDefaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "swo_responses_rejected_total",
				Help: "Total number of rejected submissions by reason",
			}, []string{"form_type", "reason"}),
			drafts: promauto.With(respDefaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "swo_response_drafts_saved_total",
				Help: "Total number of saved drafts",
			}, []string{"form_type"}),
		}
	})
	return respMetricsInstance
}

func resetResponseMetricsForTesting() {
	respDefaultRegistry = prometheus.NewRegistry()
	respMetricsInstance = nil
	respMetricsOnce = sync.Once{}
}

// ResponseService accepts drafts and submissions against Active forms.
type ResponseService struct {
	forms     store.FormStore
	responses store.ResponseStore
	faculties store.FacultyStore
	publisher types.EventPublisher
	jobs      JobSubmitter
	metrics   *responseMetrics
	log       *zap.SugaredLogger
}

func NewResponseService(forms store.FormStore, responses store.ResponseStore, faculties store.FacultyStore,
	publisher types.EventPublisher, jobs JobSubmitter) *ResponseService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ResponseService{
		forms:     forms,
		responses: responses,
		faculties: faculties,
		publisher: publisher,
		jobs:      jobs,
		metrics:   newResponseMetrics(),
		log:       logger.GetLogger().Named("response-service"),
	}
}

// Submit validates the answers against the form schema and stores them as the
// respondent's submitted response. A respondent submits once per form and
// faculty member; a repeat submission is a conflict.
func (s *ResponseService) Submit(ctx context.Context, formType types.FormType, formID string, who types.Respondent, req types.SubmitRequest) (*types.FeedbackResponse, error) {
	schema, form, err := s.activeSchema(ctx, formType, formID)
	if err != nil {
		return nil, err
	}

	collector, err := feedback.CollectorFromAnswers(schema, req.Answers)
	if err != nil {
		return nil, s.reject(formType, err)
	}
	payload, err := feedback.BuildSubmission(schema, collector, req.FacultyID)
	if err != nil {
		return nil, s.reject(formType, err)
	}
	if payload.FacultyID != nil {
		if err := s.checkFaculty(ctx, *payload.FacultyID); err != nil {
			s.metrics.rejected.WithLabelValues(string(formType), "unknown_faculty").Inc()
			return nil, err
		}
	}

	resp := &types.FeedbackResponse{
		FormID:           formID,
		RespondentUserID: who.UserID,
		RespondentType:   who.Type,
		FacultyID:        payload.FacultyID,
		Answers:          toDetails(payload.Answers),
	}
	saved, err := s.responses.Submit(ctx, resp)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.metrics.rejected.WithLabelValues(string(formType), "duplicate").Inc()
			return nil, apperrors.NewConflictError("Feedback already submitted",
				"a response for this form has already been submitted")
		}
		return nil, storeError(err, "Feedback response", "")
	}

	s.metrics.submitted.WithLabelValues(string(formType)).Inc()
	s.log.Infow("Feedback submitted",
		"formId", formID,
		"responseId", saved.ID,
		"respondentType", who.Type,
		"answers", len(saved.Answers))

	publishAsync(s.jobs, s.publisher, s.log, types.EventTypeResponseSubmitted, *form, who.UserID, types.ResponseSubmittedEvent{
		ResponseID:     saved.ID,
		RespondentType: who.Type,
		FacultyID:      saved.FacultyID,
		AnswerCount:    len(saved.Answers),
	})
	return saved, nil
}

// SaveDraft stores partial answers. Mandatory coverage is not enforced but
// every value present must fit its question.
func (s *ResponseService) SaveDraft(ctx context.Context, formType types.FormType, formID string, who types.Respondent, req types.DraftRequest) (*types.FeedbackResponse, error) {
	schema, _, err := s.activeSchema(ctx, formType, formID)
	if err != nil {
		return nil, err
	}

	collector, err := feedback.CollectorFromAnswers(schema, req.Answers)
	if err != nil {
		return nil, validationError(err)
	}
	answers, err := feedback.BuildDraft(schema, collector)
	if err != nil {
		return nil, validationError(err)
	}

	var facultyID *string
	if formType.RequiresTarget() && req.FacultyID != nil && trimmed(*req.FacultyID) != "" {
		id := trimmed(*req.FacultyID)
		if err := s.checkFaculty(ctx, id); err != nil {
			return nil, err
		}
		facultyID = &id
	}

	saved, err := s.responses.SaveDraft(ctx, &types.FeedbackResponse{
		FormID:           formID,
		RespondentUserID: who.UserID,
		RespondentType:   who.Type,
		FacultyID:        facultyID,
		Answers:          toDetails(answers),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.NewConflictError("Feedback already submitted",
				"a submitted response can no longer be edited")
		}
		return nil, storeError(err, "Feedback response", "")
	}

	s.metrics.drafts.WithLabelValues(string(formType)).Inc()
	return saved, nil
}

// List returns a page of responses to a form for administrators.
func (s *ResponseService) List(ctx context.Context, formType types.FormType, filter types.ResponseFilter) ([]types.FeedbackResponse, types.Pagination, error) {
	form, err := s.forms.GetForm(ctx, filter.FormID)
	if err != nil {
		return nil, types.Pagination{}, storeError(err, "Feedback form", filter.FormID)
	}
	if form.FormType != formType {
		return nil, types.Pagination{}, apperrors.NotFound("Feedback form", filter.FormID)
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultResponsePageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, total, err := s.responses.ListResponses(ctx, filter)
	if err != nil {
		return nil, types.Pagination{}, storeError(err, "Faculty member", derefString(filter.FacultyID))
	}
	if items == nil {
		items = []types.FeedbackResponse{}
	}
	return items, types.Pagination{Limit: filter.Limit, Offset: filter.Offset, Total: total}, nil
}

// activeSchema loads the form, checks its category and Active status and returns its normalized schema.
func (s *ResponseService) activeSchema(ctx context.Context, formType types.FormType, formID string) (feedback.Schema, *types.FeedbackForm, error) {
	detail, err := s.forms.GetFormDetail(ctx, formID)
	if err != nil {
		return feedback.Schema{}, nil, storeError(err, "Feedback form", formID)
	}
	if detail.FormType != formType {
		return feedback.Schema{}, nil, apperrors.NotFound("Feedback form", formID)
	}
	if detail.Status != types.FormStatusActive {
		return feedback.Schema{}, nil, apperrors.FormNotActive(formID)
	}
	schema := feedback.Normalize(*detail)
	if schema.IsEmpty() {
		return feedback.Schema{}, nil, apperrors.ValidationFailed("Form has no questions", formID)
	}
	return schema, &detail.FeedbackForm, nil
}

func (s *ResponseService) checkFaculty(ctx context.Context, id string) error {
	faculty, err := s.faculties.GetFaculty(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ValidationFailed("Selected faculty member does not exist", id)
		}
		return apperrors.NewDatabaseError(err)
	}
	if !faculty.IsActive {
		return apperrors.ValidationFailed("Selected faculty member is not available", id)
	}
	return nil
}

func (s *ResponseService) reject(formType types.FormType, err error) error {
	var verr *feedback.ValidationError
	if errors.As(err, &verr) {
		s.metrics.rejected.WithLabelValues(string(formType), string(verr.Reason)).Inc()
	}
	return validationError(err)
}

func toDetails(answers []types.AnswerInput) []types.AnswerDetail {
	out := make([]types.AnswerDetail, 0, len(answers))
	for _, a := range answers {
		out = append(out, types.AnswerDetail{
			QuestionID:   a.QuestionID,
			AnswerRating: a.AnswerRating,
			AnswerText:   a.AnswerText,
		})
	}
	return out
}

// FindOwn returns the caller's existing draft or submission for the form, so a
// respondent can resume a draft. facultyID narrows faculty feedback to one target.
func (s *ResponseService) FindOwn(ctx context.Context, formType types.FormType, formID string, who types.Respondent, facultyID *string) (*types.FeedbackResponse, error) {
	form, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		return nil, storeError(err, "Feedback form", formID)
	}
	if form.FormType != formType {
		return nil, apperrors.NotFound("Feedback form", formID)
	}
	if !formType.RequiresTarget() {
		facultyID = nil
	}
	resp, err := s.responses.FindExisting(ctx, formID, who.UserID, facultyID)
	if err != nil {
		return nil, storeError(err, "Feedback response", formID)
	}
	return resp, nil
}
