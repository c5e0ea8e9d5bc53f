package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/internal/report"
	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/campusdesk/swo-feedback/types"
	"go.uber.org/zap"
)

const (
	csvContentType     = "text/csv; charset=utf-8"
	reportEmailTimeout = 30 * time.Second
)

// ArchiveStorage stores exported reports and hands out time-limited download links.
type ArchiveStorage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ReportMailer delivers a report summary with its CSV export.
type ReportMailer interface {
	SendReport(ctx context.Context, to string, rep types.FormReport, csvName string, csvData []byte) error
}

// ReportService aggregates submitted responses into reports and exports.
// Storage and mailer are optional; the matching operations fail when they are nil.
type ReportService struct {
	forms      store.FormStore
	responses  store.ResponseStore
	storage    ArchiveStorage
	mailer     ReportMailer
	jobs       JobSubmitter
	presignTTL time.Duration
	now        func() time.Time
	log        *zap.SugaredLogger
}

func NewReportService(forms store.FormStore, responses store.ResponseStore, storage ArchiveStorage,
	mailer ReportMailer, jobs JobSubmitter, presignTTL time.Duration) *ReportService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &ReportService{
		forms:      forms,
		responses:  responses,
		storage:    storage,
		mailer:     mailer,
		jobs:       jobs,
		presignTTL: presignTTL,
		now:        func() time.Time { return time.Now().UTC() },
		log:        logger.GetLogger().Named("report-service"),
	}
}

// Report aggregates every submitted answer of the form. For faculty feedback,
// facultyID narrows the report to one faculty member.
func (s *ReportService) Report(ctx context.Context, formID string, facultyID *string) (*types.FormReport, error) {
	detail, answers, facultyID, err := s.load(ctx, formID, facultyID)
	if err != nil {
		return nil, err
	}
	rep := report.Build(*detail, answers, facultyID, s.now())
	return &rep, nil
}

// ExportCSV renders the submitted answers as CSV and returns the suggested file name.
func (s *ReportService) ExportCSV(ctx context.Context, formID string, facultyID *string) (string, []byte, error) {
	detail, answers, _, err := s.load(ctx, formID, facultyID)
	if err != nil {
		return "", nil, err
	}
	data, err := renderCSV(*detail, answers)
	if err != nil {
		return "", nil, apperrors.InternalServerError("Failed to render export")
	}
	return report.FileName(*detail, s.now()), data, nil
}

// Archive uploads the CSV export to object storage and returns a presigned link.
func (s *ReportService) Archive(ctx context.Context, formID string, facultyID *string) (*types.ReportArchive, error) {
	if s.storage == nil {
		return nil, apperrors.New(apperrors.ExternalServiceError, "Report archive storage is not configured", "")
	}
	name, data, err := s.ExportCSV(ctx, formID, facultyID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports/%s/%s", formID, name)
	if err := s.storage.Put(ctx, key, data, csvContentType); err != nil {
		s.log.Errorw("Failed to upload report archive", "formId", formID, "key", key, "error", err)
		return nil, apperrors.ExternalService("Object storage", err)
	}
	url, err := s.storage.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return nil, apperrors.ExternalService("Object storage", err)
	}

	s.log.Infow("Report archived", "formId", formID, "key", key, "bytes", len(data))
	return &types.ReportArchive{
		Key:         key,
		DownloadURL: url,
		ExpiresAt:   s.now().Add(s.presignTTL),
	}, nil
}

// EmailReport builds the report now and mails it in the background. Errors
// loading the form surface to the caller; delivery failures are only logged.
func (s *ReportService) EmailReport(ctx context.Context, formID string, req types.ReportEmailRequest) error {
	if s.mailer == nil {
		return apperrors.New(apperrors.ExternalServiceError, "Report email is not configured", "")
	}
	detail, answers, facultyID, err := s.load(ctx, formID, req.FacultyID)
	if err != nil {
		return err
	}
	rep := report.Build(*detail, answers, facultyID, s.now())
	data, err := renderCSV(*detail, answers)
	if err != nil {
		return apperrors.InternalServerError("Failed to render export")
	}
	name := report.FileName(*detail, rep.GeneratedAt)

	send := func(ctx context.Context) error {
		return s.mailer.SendReport(ctx, req.To, rep, name, data)
	}
	if s.jobs != nil && s.jobs.Submit(Job{Name: "email:report", Execute: send, Timeout: reportEmailTimeout}) {
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, reportEmailTimeout)
	defer cancel()
	if err := send(sendCtx); err != nil {
		return apperrors.ExternalService("Email", err)
	}
	return nil
}

func (s *ReportService) load(ctx context.Context, formID string, facultyID *string) (*types.FormDetail, []types.SubmittedAnswer, *string, error) {
	detail, err := s.forms.GetFormDetail(ctx, formID)
	if err != nil {
		return nil, nil, nil, storeError(err, "Feedback form", formID)
	}
	if !detail.FormType.RequiresTarget() || (facultyID != nil && trimmed(*facultyID) == "") {
		facultyID = nil
	}
	answers, err := s.responses.ListSubmittedAnswers(ctx, formID, facultyID)
	if err != nil {
		return nil, nil, nil, storeError(err, "Faculty member", derefString(facultyID))
	}
	return detail, answers, facultyID, nil
}

func renderCSV(detail types.FormDetail, answers []types.SubmittedAnswer) ([]byte, error) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, detail, answers); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
