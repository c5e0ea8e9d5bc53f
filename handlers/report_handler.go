package handlers

import (
	"fmt"
	"net/http"

	"github.com/campusdesk/swo-feedback/types"
	"github.com/gin-gonic/gin"
)

// ReportHandler exposes aggregated reports and exports.
type ReportHandler struct {
	reports ReportServiceInterface
}

func NewReportHandler(reports ReportServiceInterface) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetReport godoc
// @Summary Aggregated report for a form
// @Description Per-question counts, rating averages and distributions, yes/no tallies and text answers.
// @Tags reports
// @Produce json
// @Param formId path string true "Form ID"
// @Param faculty_id query string false "Narrow faculty feedback to one faculty member"
// @Success 200 {object} types.APIResponse{data=types.FormReport}
// @Failure 404 {object} types.ErrorResponse
// @Router /academic-swo/feedback-reports/{formId} [get]
// @Security BearerAuth
func (h *ReportHandler) GetReport(c *gin.Context) {
	rep, err := h.reports.Report(c.Request.Context(), c.Param("formId"), optionalQuery(c, "faculty_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondData(c, rep)
}

// ExportCSV godoc
// @Summary Download submitted answers as CSV
// @Tags reports
// @Produce text/csv
// @Param formId path string true "Form ID"
// @Param faculty_id query string false "Narrow faculty feedback to one faculty member"
// @Success 200 {file} file
// @Failure 404 {object} types.ErrorResponse
// @Router /academic-swo/feedback-reports/export/{formId}/csv [get]
// @Security BearerAuth
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	name, data, err := h.reports.ExportCSV(c.Request.Context(), c.Param("formId"), optionalQuery(c, "faculty_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ArchiveExport godoc
// @Summary Store the CSV export in object storage
// @Description Uploads the export and returns a time-limited download link.
// @Tags reports
// @Produce json
// @Param formId path string true "Form ID"
// @Param faculty_id query string false "Narrow faculty feedback to one faculty member"
// @Success 201 {object} types.APIResponse{data=types.ReportArchive}
// @Failure 502 {object} types.ErrorResponse
// @Router /academic-swo/feedback-reports/export/{formId}/archive [post]
// @Security BearerAuth
func (h *ReportHandler) ArchiveExport(c *gin.Context) {
	archive, err := h.reports.Archive(c.Request.Context(), c.Param("formId"), optionalQuery(c, "faculty_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, http.StatusCreated, archive, "Report archived")
}

// EmailReport godoc
// @Summary Email the report summary
// @Description Queues an email with the report summary and the CSV export attached.
// @Tags reports
// @Accept json
// @Produce json
// @Param formId path string true "Form ID"
// @Param request body types.ReportEmailRequest true "Recipient"
// @Success 202 {object} types.APIResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /academic-swo/feedback-reports/{formId}/email [post]
// @Security BearerAuth
func (h *ReportHandler) EmailReport(c *gin.Context) {
	var req types.ReportEmailRequest
	if !bindJSONOrError(c, &req) {
		return
	}
	if err := h.reports.EmailReport(c.Request.Context(), c.Param("formId"), req); err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, http.StatusAccepted, nil, "Report email queued")
}
