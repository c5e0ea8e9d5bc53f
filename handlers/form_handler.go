package handlers

import (
	"net/http"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/gin-gonic/gin"
)

// FormHandler serves the form catalog of one category per route group.
type FormHandler struct {
	forms FormServiceInterface
}

func NewFormHandler(forms FormServiceInterface) *FormHandler {
	return &FormHandler{forms: forms}
}

// ListForms godoc
// @Summary List feedback forms
// @Description Lists the forms of a category. Filter by status, department or semester.
// @Tags forms
// @Produce json
// @Param category path string true "Form category" Enums(faculty-feedback, institution-feedback, graduate-exit-survey)
// @Param status query string false "Active or Inactive"
// @Param department_id query string false "Department scope"
// @Param semester_id query string false "Semester scope"
// @Success 200 {object} types.APIResponse{data=[]types.FeedbackForm}
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /academic-swo/{category}/public [get]
// @Security BearerAuth
func (h *FormHandler) ListForms(c *gin.Context) {
	formType, ok := mustFormType(c)
	if !ok {
		return
	}

	filter := types.FormFilter{
		FormType:     formType,
		DepartmentID: optionalQuery(c, "department_id"),
		SemesterID:   optionalQuery(c, "semester_id"),
	}
	if s := optionalQuery(c, "status"); s != nil {
		status := types.FormStatus(*s)
		if !status.IsValid() {
			_ = c.Error(apperrors.ValidationFailed("Invalid status filter", *s))
			return
		}
		filter.Status = &status
	}

	forms, err := h.forms.List(c.Request.Context(), formType, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondData(c, forms)
}

// GetForm godoc
// @Summary Get a form with its areas and questions
// @Tags forms
// @Produce json
// @Param category path string true "Form category"
// @Param id path string true "Form ID"
// @Success 200 {object} types.APIResponse{data=types.FormDetail}
// @Failure 404 {object} types.ErrorResponse
// @Router /academic-swo/{category}/public/{id} [get]
// @Security BearerAuth
func (h *FormHandler) GetForm(c *gin.Context) {
	formType, ok := mustFormType(c)
	if !ok {
		return
	}
	detail, err := h.forms.GetDetail(c.Request.Context(), formType, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondData(c, detail)
}

// CreateForm godoc
// @Summary Create a form
// @Description Creates a form with either grouped areas or a flat question list. A form created Active deactivates its siblings.
// @Tags forms
// @Accept json
// @Produce json
// @Param category path string true "Form category"
// @Param request body types.FormCreate true "Form definition"
// @Success 201 {object} types.APIResponse{data=types.FormDetail}
// @Failure 400 {object} types.ErrorResponse
// @Failure 403 {object} types.ErrorResponse
// @Router /academic-swo/{category}/public [post]
// @Security BearerAuth
func (h *FormHandler) CreateForm(c *gin.Context) {
	formType, ok := mustFormType(c)
	if !ok {
		return
	}
	var req types.FormCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	detail, err := h.forms.Create(c.Request.Context(), formType, getUserIDFromContext(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, http.StatusCreated, detail, "Form created")
}

// UpdateForm godoc
// @Summary Update a form
// @Description Updates metadata. Sending areas or questions replaces the schema, which is refused once responses exist.
// @Tags forms
// @Accept json
// @Produce json
// @Param category path string true "Form category"
// @Param id path string true "Form ID"
// @Param request body types.FormUpdate true "Fields to change"
// @Success 200 {object} types.APIResponse{data=types.FormDetail}
// @Failure 400 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse
// @Router /academic-swo/{category}/public/{id} [put]
// @Security BearerAuth
func (h *FormHandler) UpdateForm(c *gin.Context) {
	formType, ok := mustFormType(c)
	if !ok {
		return
	}
	var req types.FormUpdate
	if !bindJSONOrError(c, &req) {
		return
	}

	detail, err := h.forms.Update(c.Request.Context(), formType, c.Param("id"), getUserIDFromContext(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, http.StatusOK, detail, "Form updated")
}

// UpdateFormStatus godoc
// @Summary Activate or deactivate a form
// @Description Activating a form deactivates every other Active form of the same category and scope.
// @Tags forms
// @Accept json
// @Produce json
// @Param category path string true "Form category"
// @Param id path string true "Form ID"
// @Param request body types.StatusUpdate true "New status"
// @Success 200 {object} types.APIResponse{data=types.StatusChangeResponse}
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /academic-swo/{category}/public/{id}/status [patch]
// @Security BearerAuth
func (h *FormHandler) UpdateFormStatus(c *gin.Context) {
	formType, ok := mustFormType(c)
	if !ok {
		return
	}
	var req types.StatusUpdate
	if !bindJSONOrError(c, &req) {
		return
	}

	change, err := h.forms.SetStatus(c.Request.Context(), formType, c.Param("id"), getUserIDFromContext(c), req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondOK(c, http.StatusOK, change, "Form status updated")
}
