package handlers

import (
	"net/http"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/gin-gonic/gin"
)

// ResponseHandler accepts drafts and submissions and lists responses for admins.
type ResponseHandler struct {
	responses ResponseServiceInterface
}

func NewResponseHandler(responses ResponseServiceInterface) *ResponseHandler {
	return &ResponseHandler{responses: responses}
}

// SubmitResponse godoc
// @Summary Submit feedback
// @Description Validates the answers against the form and stores the submission. Each respondent submits once per form (and faculty member for faculty feedback).
// @Tags responses
// @Accept json
// @Produce json
// @Param category path string true "Form category"
// @Param id path string true "Form ID"
// @Param request body types.SubmitRequest true "Answers"
// @Success 201 {object} types.APIResponse{data=types.FeedbackResponse}
// @Failure 400 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse "Already submitted or form inactive"
// @Failure 422 {object} types.ErrorResponse "A mandatory answer is missing"
// @Failure 429 {object} types.ErrorResponse
// @Router /academic-swo/{category}/{id}/submit [post]
// @Security BearerAuth
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	formType, ok := mustFormType(c)
	if !ok {
		return
	}
	who, ok := respondentFromContext(c)
	if !ok {
		return
	}
	var req types.SubmitRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	resp, err := h.responses.Submit(c.Request.Context(), formType, c.Param("id"), who, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, http.StatusCreated, resp, "Feedback submitted successfully")
}

// SaveDraft godoc
// @Summary Save a draft
// @Description Stores partial answers without enforcing mandatory areas.
// @Tags responses
// @Accept json
// @Produce json
// @Param category path string true "Form category"
// @Param id path string true "Form ID"
// @Param request body types.DraftRequest true "Partial answers"
// @Success 200 {object} types.APIResponse{data=types.FeedbackResponse}
// @Failure 400 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse
// @Router /academic-swo/{category}/{id}/draft [put]
// @Security BearerAuth
func (h *ResponseHandler) SaveDraft(c *gin.Context) {
	formType, ok := mustFormType(c)
	if !ok {
		return
	}
	who, ok := respondentFromContext(c)
	if !ok {
		return
	}
	var req types.DraftRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	resp, err := h.responses.SaveDraft(c.Request.Context(), formType, c.Param("id"), who, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, http.StatusOK, resp, "Draft saved")
}

// GetMyResponse godoc
// @Summary Get the caller's draft or submission
// @Tags responses
// @Produce json
// @Param category path string true "Form category"
// @Param id path string true "Form ID"
// @Param faculty_id query string false "Faculty member being rated"
// @Success 200 {object} types.APIResponse{data=types.FeedbackResponse}
// @Failure 404 {object} types.ErrorResponse
// @Router /academic-swo/{category}/{id}/my-response [get]
// @Security BearerAuth
func (h *ResponseHandler) GetMyResponse(c *gin.Context) {
	formType, ok := mustFormType(c)
	if !ok {
		return
	}
	who, ok := respondentFromContext(c)
	if !ok {
		return
	}

	resp, err := h.responses.FindOwn(c.Request.Context(), formType, c.Param("id"), who, optionalQuery(c, "faculty_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondData(c, resp)
}

// ListResponses godoc
// @Summary List responses to a form
// @Tags responses
// @Produce json
// @Param category path string true "Form category"
// @Param id path string true "Form ID"
// @Param faculty_id query string false "Only responses about this faculty member"
// @Param status query string false "Draft or Submitted"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset"
// @Success 200 {object} types.APIResponse{data=types.PaginatedResponse}
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /academic-swo/{category}/{id}/responses [get]
// @Security BearerAuth
func (h *ResponseHandler) ListResponses(c *gin.Context) {
	formType, ok := mustFormType(c)
	if !ok {
		return
	}
	var page types.PaginationParams
	if err := c.ShouldBindQuery(&page); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid pagination parameters", err.Error()))
		return
	}

	filter := types.ResponseFilter{
		FormID:    c.Param("id"),
		FacultyID: optionalQuery(c, "faculty_id"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	if s := optionalQuery(c, "status"); s != nil {
		status := types.ResponseStatus(*s)
		if status != types.ResponseStatusDraft && status != types.ResponseStatusSubmitted {
			_ = c.Error(apperrors.ValidationFailed("Invalid status filter", *s))
			return
		}
		filter.Status = &status
	}

	items, pagination, err := h.responses.List(c.Request.Context(), formType, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondData(c, types.PaginatedResponse{Items: items, Pagination: pagination})
}
