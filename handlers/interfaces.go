package handlers

import (
	"context"

	"github.com/campusdesk/swo-feedback/types"
)

// FormServiceInterface defines the form catalog operations used by FormHandler.
type FormServiceInterface interface {
	Create(ctx context.Context, formType types.FormType, userID string, req types.FormCreate) (*types.FormDetail, error)
	List(ctx context.Context, formType types.FormType, filter types.FormFilter) ([]types.FeedbackForm, error)
	GetDetail(ctx context.Context, formType types.FormType, id string) (*types.FormDetail, error)
	Update(ctx context.Context, formType types.FormType, id, userID string, req types.FormUpdate) (*types.FormDetail, error)
	SetStatus(ctx context.Context, formType types.FormType, id, userID string, status types.FormStatus) (*types.StatusChangeResponse, error)
}

// ResponseServiceInterface defines the response operations used by ResponseHandler.
type ResponseServiceInterface interface {
	Submit(ctx context.Context, formType types.FormType, formID string, who types.Respondent, req types.SubmitRequest) (*types.FeedbackResponse, error)
	SaveDraft(ctx context.Context, formType types.FormType, formID string, who types.Respondent, req types.DraftRequest) (*types.FeedbackResponse, error)
	List(ctx context.Context, formType types.FormType, filter types.ResponseFilter) ([]types.FeedbackResponse, types.Pagination, error)
	FindOwn(ctx context.Context, formType types.FormType, formID string, who types.Respondent, facultyID *string) (*types.FeedbackResponse, error)
}

// ReportServiceInterface defines the reporting operations used by ReportHandler.
type ReportServiceInterface interface {
	Report(ctx context.Context, formID string, facultyID *string) (*types.FormReport, error)
	ExportCSV(ctx context.Context, formID string, facultyID *string) (string, []byte, error)
	Archive(ctx context.Context, formID string, facultyID *string) (*types.ReportArchive, error)
	EmailReport(ctx context.Context, formID string, req types.ReportEmailRequest) error
}

type FacultyServiceInterface interface {
	ListActive(ctx context.Context, departmentID *string) ([]types.Faculty, error)
}

type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}
