package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const facultyBase = "/api/academic-swo/faculty-feedback"

func formRouter(svc *MockFormService, id identity) *gin.Engine {
	r := newTestEngine(id)
	h := NewFormHandler(svc)
	g := r.Group(facultyBase, FormCategory(types.FormTypeFacultyFeedback))
	g.GET("/public", h.ListForms)
	g.GET("/public/:id", h.GetForm)
	g.POST("/public", h.CreateForm)
	g.PUT("/public/:id", h.UpdateForm)
	g.PATCH("/public/:id/status", h.UpdateFormStatus)
	return r
}

func TestFormHandler_ListForms(t *testing.T) {
	svc := new(MockFormService)
	r := formRouter(svc, studentUser)

	active := types.FormStatusActive
	svc.On("List", mock.Anything, types.FormTypeFacultyFeedback, types.FormFilter{
		FormType:     types.FormTypeFacultyFeedback,
		Status:       &active,
		DepartmentID: strPtr("cs"),
	}).Return([]types.FeedbackForm{{ID: "form-1", Title: "Mid-semester review", Status: active}}, nil).Once()

	w := doJSON(t, r, http.MethodGet, facultyBase+"/public?status=Active&department_id=cs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	var forms []types.FeedbackForm
	require.NoError(t, json.Unmarshal(env.Data, &forms))
	require.Len(t, forms, 1)
	assert.Equal(t, "form-1", forms[0].ID)
	svc.AssertExpectations(t)
}

func TestFormHandler_ListForms_InvalidStatus(t *testing.T) {
	svc := new(MockFormService)
	r := formRouter(svc, studentUser)

	w := doJSON(t, r, http.MethodGet, facultyBase+"/public?status=Archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestFormHandler_GetForm_NotFound(t *testing.T) {
	svc := new(MockFormService)
	r := formRouter(svc, studentUser)
	svc.On("GetDetail", mock.Anything, types.FormTypeFacultyFeedback, "missing").
		Return(nil, apperrors.NotFound("Feedback form", "missing"))

	w := doJSON(t, r, http.MethodGet, facultyBase+"/public/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Feedback form not found", env.Message)
}

func TestFormHandler_CreateForm(t *testing.T) {
	svc := new(MockFormService)
	r := formRouter(svc, adminUser)

	body := map[string]interface{}{
		"title":  "End-semester review",
		"status": "Active",
		"areas": []map[string]interface{}{{
			"area_name":  "Teaching",
			"sort_order": 1,
			"questions": []map[string]interface{}{
				{"question_text": "Clarity", "question_type": "rating", "sort_order": 1},
			},
		}},
	}
	created := &types.FormDetail{FeedbackForm: types.FeedbackForm{ID: "form-9", Title: "End-semester review", Status: types.FormStatusActive}}
	svc.On("Create", mock.Anything, types.FormTypeFacultyFeedback, "admin-1", mock.MatchedBy(func(req types.FormCreate) bool {
		return req.Title == "End-semester review" && req.Status == types.FormStatusActive &&
			len(req.Areas) == 1 && req.Areas[0].Questions[0].QuestionText == "Clarity"
	})).Return(created, nil).Once()

	w := doJSON(t, r, http.MethodPost, facultyBase+"/public", body)
	require.Equal(t, http.StatusCreated, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, "Form created", env.Message)
	var detail types.FormDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "form-9", detail.ID)
	svc.AssertExpectations(t)
}

func TestFormHandler_CreateForm_MissingTitle(t *testing.T) {
	svc := new(MockFormService)
	r := formRouter(svc, adminUser)

	w := doJSON(t, r, http.MethodPost, facultyBase+"/public", map[string]interface{}{"questions": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "VALIDATION_ERROR", env.Type)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFormHandler_UpdateForm_Conflict(t *testing.T) {
	svc := new(MockFormService)
	r := formRouter(svc, adminUser)
	svc.On("Update", mock.Anything, types.FormTypeFacultyFeedback, "form-1", "admin-1", mock.Anything).
		Return(nil, apperrors.NewConflictError("Form already has responses", "schema is locked"))

	w := doJSON(t, r, http.MethodPut, facultyBase+"/public/form-1", map[string]interface{}{
		"questions": []map[string]interface{}{{"question_text": "New?", "question_type": "text"}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeEnvelope(t, w).Type)
}

func TestFormHandler_UpdateFormStatus(t *testing.T) {
	svc := new(MockFormService)
	r := formRouter(svc, adminUser)

	change := &types.StatusChangeResponse{
		Form:        types.FeedbackForm{ID: "form-2", Status: types.FormStatusActive},
		Previous:    types.FormStatusInactive,
		Deactivated: []string{"form-1"},
		Changed:     true,
	}
	svc.On("SetStatus", mock.Anything, types.FormTypeFacultyFeedback, "form-2", "admin-1", types.FormStatusActive).
		Return(change, nil).Once()

	w := doJSON(t, r, http.MethodPatch, facultyBase+"/public/form-2/status", map[string]string{"status": "Active"})
	require.Equal(t, http.StatusOK, w.Code)

	var got types.StatusChangeResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, []string{"form-1"}, got.Deactivated)
	assert.True(t, got.Changed)
}

func TestFormHandler_UpdateFormStatus_InvalidBody(t *testing.T) {
	svc := new(MockFormService)
	r := formRouter(svc, adminUser)

	w := doJSON(t, r, http.MethodPatch, facultyBase+"/public/form-2/status", map[string]string{"status": "Paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFormHandler_NoCategory(t *testing.T) {
	svc := new(MockFormService)
	r := newTestEngine(adminUser)
	r.GET("/bare", NewFormHandler(svc).ListForms)

	w := doJSON(t, r, http.MethodGet, "/bare", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
