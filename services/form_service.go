package services

import (
	"context"
	"fmt"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/internal/events"
	"github.com/campusdesk/swo-feedback/internal/feedback"
	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/campusdesk/swo-feedback/types"
	"go.uber.org/zap"
)

// FormService manages form definitions and the Active/Inactive toggle. The
// store is the authority for exclusivity: activating a form deactivates its
// Active siblings in the same transaction.
type FormService struct {
	forms     store.FormStore
	publisher types.EventPublisher
	jobs      JobSubmitter
	log       *zap.SugaredLogger
}

func NewFormService(forms store.FormStore, publisher types.EventPublisher, jobs JobSubmitter) *FormService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &FormService{
		forms:     forms,
		publisher: publisher,
		jobs:      jobs,
		log:       logger.GetLogger().Named("form-service"),
	}
}

// Create validates and stores a new form of formType.
func (s *FormService) Create(ctx context.Context, formType types.FormType, userID string, req types.FormCreate) (*types.FormDetail, error) {
	if req.FormType == "" {
		req.FormType = formType
	}
	if req.FormType != formType {
		return nil, apperrors.ValidationFailed("form_type does not match the category",
			fmt.Sprintf("expected %s, got %s", formType, req.FormType))
	}

	feedback.ApplyDefaults(&req)
	if err := feedback.ValidateDefinition(req); err != nil {
		return nil, validationError(err)
	}

	areas, flat := feedback.BuildLayout(req.Areas, req.Questions)
	detail := &types.FormDetail{
		FeedbackForm: types.FeedbackForm{
			FormType:     req.FormType,
			Title:        req.Title,
			Description:  req.Description,
			Status:       req.Status,
			DepartmentID: req.DepartmentID,
			SemesterID:   req.SemesterID,
			IsMandatory:  req.IsMandatory,
			CreatedBy:    userID,
		},
		Areas:     areas,
		Questions: flat,
	}

	deactivated, err := s.forms.CreateForm(ctx, detail)
	if err != nil {
		return nil, storeError(err, "Feedback form", "")
	}

	s.log.Infow("Feedback form created",
		"formId", detail.ID,
		"formType", detail.FormType,
		"status", detail.Status,
		"deactivated", deactivated)

	s.publish(types.EventTypeFormCreated, detail.FeedbackForm, userID, map[string]interface{}{
		"title":       detail.Title,
		"status":      detail.Status,
		"deactivated": deactivated,
	})
	return detail, nil
}

// List returns the forms of formType, newest first.
func (s *FormService) List(ctx context.Context, formType types.FormType, filter types.FormFilter) ([]types.FeedbackForm, error) {
	filter.FormType = formType
	forms, err := s.forms.ListForms(ctx, filter)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if forms == nil {
		forms = []types.FeedbackForm{}
	}
	return forms, nil
}

// GetDetail returns a form with its schema. A form of another category is reported as not found.
func (s *FormService) GetDetail(ctx context.Context, formType types.FormType, id string) (*types.FormDetail, error) {
	detail, err := s.forms.GetFormDetail(ctx, id)
	if err != nil {
		return nil, storeError(err, "Feedback form", id)
	}
	if detail.FormType != formType {
		return nil, apperrors.NotFound("Feedback form", id)
	}
	return detail, nil
}

// Update changes form metadata and optionally replaces the schema. The schema
// of a form that already has responses cannot be replaced. A department or
// semester sent as "" clears that part of the scope.
func (s *FormService) Update(ctx context.Context, formType types.FormType, id, userID string, req types.FormUpdate) (*types.FormDetail, error) {
	current, err := s.getForm(ctx, formType, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := trimmed(*req.Title)
		if title == "" {
			return nil, apperrors.ValidationFailed("title is required", string(feedback.ReasonDefinition))
		}
		req.Title = &title
	}

	var schema *store.SchemaReplacement
	if req.ReplacesSchema() {
		def := types.FormCreate{FormType: current.FormType, Title: current.Title, Areas: req.Areas, Questions: req.Questions}
		feedback.ApplyDefaults(&def)
		if err := feedback.ValidateSchema(def.Areas, def.Questions); err != nil {
			return nil, validationError(err)
		}
		areas, flat := feedback.BuildLayout(def.Areas, def.Questions)
		schema = &store.SchemaReplacement{Areas: areas, Questions: flat}
	}

	if _, err := s.forms.UpdateForm(ctx, id, req, schema); err != nil {
		return nil, storeError(err, "Feedback form", id)
	}

	detail, err := s.forms.GetFormDetail(ctx, id)
	if err != nil {
		return nil, storeError(err, "Feedback form", id)
	}

	s.publish(types.EventTypeFormUpdated, detail.FeedbackForm, userID, map[string]interface{}{
		"schemaReplaced": req.ReplacesSchema(),
	})
	return detail, nil
}

// SetStatus activates or deactivates a form. Setting the current status again
// succeeds without writes.
func (s *FormService) SetStatus(ctx context.Context, formType types.FormType, id, userID string, status types.FormStatus) (*types.StatusChangeResponse, error) {
	if !status.IsValid() {
		return nil, apperrors.ValidationFailed("status must be Active or Inactive", string(status))
	}
	if _, err := s.getForm(ctx, formType, id); err != nil {
		return nil, err
	}

	change, err := s.forms.SetStatus(ctx, id, status)
	if err != nil {
		return nil, storeError(err, "Feedback form", id)
	}

	deactivated := change.Deactivated
	if deactivated == nil {
		deactivated = []string{}
	}
	resp := &types.StatusChangeResponse{
		Form:        change.Form,
		Previous:    change.Previous,
		Deactivated: deactivated,
		Changed:     change.Changed,
	}

	if change.Changed {
		s.log.Infow("Feedback form status changed",
			"formId", id,
			"from", change.Previous,
			"to", status,
			"deactivated", deactivated,
			"userId", userID)
		s.publish(types.EventTypeFormStatusChanged, change.Form, userID, types.FormStatusChangedEvent{
			OldStatus:   change.Previous,
			NewStatus:   status,
			Deactivated: change.Deactivated,
			ChangedBy:   userID,
		})
	}
	return resp, nil
}

func (s *FormService) getForm(ctx context.Context, formType types.FormType, id string) (*types.FeedbackForm, error) {
	form, err := s.forms.GetForm(ctx, id)
	if err != nil {
		return nil, storeError(err, "Feedback form", id)
	}
	if form.FormType != formType {
		return nil, apperrors.NotFound("Feedback form", id)
	}
	return form, nil
}

func (s *FormService) publish(eventType types.EventType, form types.FeedbackForm, userID string, payload interface{}) {
	publishAsync(s.jobs, s.publisher, s.log, eventType, form, userID, payload)
}
