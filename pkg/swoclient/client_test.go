package swoclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/campusdesk/swo-feedback/internal/feedback"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const facultyBase = "/api/academic-swo/faculty-feedback"

var facultyScope = feedback.Scope{FormType: types.FormTypeFacultyFeedback}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.APIResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Success: false, Message: msg, Type: "CONFLICT", Code: "409"})
}

func activeFacultyForm() types.FormDetail {
	areaOne, areaTwo := "a1", "a2"
	return types.FormDetail{
		FeedbackForm: types.FeedbackForm{
			ID: "f1", FormType: types.FormTypeFacultyFeedback, Title: "Faculty Evaluation", Status: types.FormStatusActive,
		},
		Areas: []types.FeedbackArea{
			{ID: "a2", AreaName: "Comments", SortOrder: 2, IsMandatory: false, Questions: []types.FeedbackQuestion{
				{ID: "q3", AreaID: &areaTwo, QuestionText: "Anything else?", QuestionType: types.QuestionTypeText, SortOrder: 1},
			}},
			{ID: "a1", AreaName: "Teaching", SortOrder: 1, IsMandatory: true, Questions: []types.FeedbackQuestion{
				{ID: "q2", AreaID: &areaOne, QuestionText: "On time?", QuestionType: types.QuestionTypeYesNo, SortOrder: 2},
				{ID: "q1", AreaID: &areaOne, QuestionText: "Clear lessons", QuestionType: types.QuestionTypeRating, SortOrder: 1},
			}},
		},
	}
}

type fakeAPI struct {
	mux         *http.ServeMux
	submitCalls atomic.Int32
	lastSubmit  types.SubmitRequest
	lastAuth    string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{mux: http.NewServeMux()}
	detail := activeFacultyForm()

	api.mux.HandleFunc("GET "+facultyBase+"/public", func(w http.ResponseWriter, r *http.Request) {
		api.lastAuth = r.Header.Get("Authorization")
		forms := []types.FeedbackForm{
			{ID: "f0", FormType: types.FormTypeFacultyFeedback, Status: types.FormStatusInactive},
			detail.FeedbackForm,
		}
		if r.URL.Query().Get("status") == "Active" {
			forms = forms[1:]
		}
		writeData(w, http.StatusOK, forms)
	})
	api.mux.HandleFunc("GET "+facultyBase+"/public/f1", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, detail)
	})
	api.mux.HandleFunc("POST "+facultyBase+"/f1/submit", func(w http.ResponseWriter, r *http.Request) {
		api.submitCalls.Add(1)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&api.lastSubmit))
		writeData(w, http.StatusCreated, types.FeedbackResponse{ID: "r1", FormID: "f1", ResponseStatus: types.ResponseStatusSubmitted})
	})

	srv := httptest.NewServer(api.mux)
	t.Cleanup(srv.Close)
	return api, New(srv.URL+"/api", WithToken("tok"), WithHTTPClient(srv.Client()))
}

func TestBaseURLFromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("NEXT_PUBLIC_API_URL", "")
	assert.Equal(t, DefaultBaseURL, BaseURLFromEnv())

	t.Setenv("NEXT_PUBLIC_API_URL", "https://swo.example.edu/api")
	assert.Equal(t, "https://swo.example.edu/api", BaseURLFromEnv())

	t.Setenv("API_BASE_URL", "http://api:5000/api")
	assert.Equal(t, "http://api:5000/api", BaseURLFromEnv())
}

func TestClient_ListForms(t *testing.T) {
	api, c := newFakeAPI(t)

	forms, err := c.ListForms(context.Background(), types.FormFilter{FormType: types.FormTypeFacultyFeedback})
	require.NoError(t, err)
	assert.Len(t, forms, 2)
	assert.Equal(t, "Bearer tok", api.lastAuth)
}

func TestClient_LoadActiveForm(t *testing.T) {
	_, c := newFakeAPI(t)

	schema, err := c.LoadActiveForm(context.Background(), facultyScope)
	require.NoError(t, err)
	assert.Equal(t, "f1", schema.FormID)
	require.Len(t, schema.Areas, 2)
	assert.Equal(t, "Teaching", schema.Areas[0].Name)
	assert.Equal(t, "q1", schema.Areas[0].Questions[0].ID)
}

func TestClient_LoadActiveForm_Scoped(t *testing.T) {
	ee, cs := "ee", "cs"
	forms := []types.FeedbackForm{
		{ID: "f-ee", FormType: types.FormTypeFacultyFeedback, Status: types.FormStatusActive, DepartmentID: &ee},
		{ID: "f-cs", FormType: types.FormTypeFacultyFeedback, Status: types.FormStatusActive, DepartmentID: &cs},
	}
	var query string
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+facultyBase+"/public", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeData(w, http.StatusOK, forms)
	})
	mux.HandleFunc("GET "+facultyBase+"/public/f-cs", func(w http.ResponseWriter, r *http.Request) {
		detail := activeFacultyForm()
		detail.FeedbackForm = forms[1]
		writeData(w, http.StatusOK, detail)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := New(srv.URL + "/api")

	schema, err := c.LoadActiveForm(context.Background(), feedback.Scope{FormType: types.FormTypeFacultyFeedback, DepartmentID: &cs})
	require.NoError(t, err)
	assert.Equal(t, "f-cs", schema.FormID)
	assert.Equal(t, "department_id=cs&status=Active", query)

	_, err = c.LoadActiveForm(context.Background(), facultyScope)
	assert.ErrorIs(t, err, ErrNoActiveForm, "department forms do not satisfy a category-wide load")
}

func TestSession_LoadUsesScope(t *testing.T) {
	sem := "2026-1"
	var query string
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+facultyBase+"/public", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeData(w, http.StatusOK, []types.FeedbackForm{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewSession(New(srv.URL+"/api"), feedback.Scope{FormType: types.FormTypeFacultyFeedback, SemesterID: &sem})
	assert.ErrorIs(t, s.Load(context.Background()), ErrNoActiveForm)
	assert.Equal(t, "semester_id=2026-1&status=Active", query)
}

func TestClient_LoadActiveForm_NoneActive(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+facultyBase+"/public", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, []types.FeedbackForm{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := New(srv.URL+"/api").LoadActiveForm(context.Background(), facultyScope)
	assert.ErrorIs(t, err, ErrNoActiveForm)
}

func TestClient_LoadActiveForm_DetailFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+facultyBase+"/public", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, []types.FeedbackForm{{ID: "f9", FormType: types.FormTypeFacultyFeedback, Status: types.FormStatusActive}})
	})
	mux.HandleFunc("GET "+facultyBase+"/public/f9", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := New(srv.URL+"/api").LoadActiveForm(context.Background(), facultyScope)
	assert.ErrorIs(t, err, ErrNoActiveForm)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestClient_SetStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH "+facultyBase+"/public/f1/status", func(w http.ResponseWriter, r *http.Request) {
		var body types.StatusUpdate
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, types.FormStatusActive, body.Status)
		writeData(w, http.StatusOK, types.StatusChangeResponse{
			Form:        types.FeedbackForm{ID: "f1", Status: types.FormStatusActive},
			Previous:    types.FormStatusInactive,
			Deactivated: []string{"f0"},
			Changed:     true,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := New(srv.URL+"/api").SetStatus(context.Background(), types.FormTypeFacultyFeedback, "f1", types.FormStatusActive)
	require.NoError(t, err)
	assert.Equal(t, []string{"f0"}, out.Deactivated)
	assert.True(t, out.Changed)
}

func TestClient_ListActiveFaculty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/faculties/dropdown/active", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("department_id"))
		writeData(w, http.StatusOK, []types.Faculty{{ID: "fac-1", Name: "Dr. Reyes", IsActive: true}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := New(srv.URL+"/api").ListActiveFaculty(context.Background(), "all")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Dr. Reyes", out[0].Name)
}

func TestSession_SubmitValidatesLocally(t *testing.T) {
	api, c := newFakeAPI(t)
	s := NewSession(c, feedback.Scope{FormType: types.FormTypeFacultyFeedback})
	require.NoError(t, s.Load(context.Background()))

	s.Answers().SetRating("q1", 4)
	s.Answers().SetText("q2", "yes")

	_, err := s.Submit(context.Background())
	var verr *feedback.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, feedback.MsgSelectFaculty, verr.Message)

	s.SelectFaculty("fac-1")
	s.Answers().SetRating("q1", 9)
	_, err = s.Submit(context.Background())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, feedback.ReasonOutOfRange, verr.Reason)

	assert.Equal(t, int32(0), api.submitCalls.Load())
}

func TestSession_SubmitSuccessResets(t *testing.T) {
	api, c := newFakeAPI(t)
	s := NewSession(c, feedback.Scope{FormType: types.FormTypeFacultyFeedback})
	require.NoError(t, s.Load(context.Background()))

	s.SelectFaculty("fac-1")
	s.Answers().SetRating("q1", 5)
	s.Answers().SetText("q2", "No")

	resp, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r1", resp.ID)

	assert.Equal(t, int32(1), api.submitCalls.Load())
	require.NotNil(t, api.lastSubmit.FacultyID)
	assert.Equal(t, "fac-1", *api.lastSubmit.FacultyID)
	assert.Len(t, api.lastSubmit.Answers, 2)

	assert.Equal(t, 0, s.Answers().Len())
	assert.Empty(t, s.SelectedFaculty())
}

func TestSession_SubmitSurfacesServerMessage(t *testing.T) {
	mux := http.NewServeMux()
	detail := activeFacultyForm()
	mux.HandleFunc("GET "+facultyBase+"/public", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, []types.FeedbackForm{detail.FeedbackForm})
	})
	mux.HandleFunc("GET "+facultyBase+"/public/f1", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, detail)
	})
	mux.HandleFunc("POST "+facultyBase+"/f1/submit", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusConflict, "Feedback already submitted")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewSession(New(srv.URL+"/api"), feedback.Scope{FormType: types.FormTypeFacultyFeedback})
	require.NoError(t, s.Load(context.Background()))
	s.SelectFaculty("fac-1")
	s.Answers().SetRating("q1", 3)
	s.Answers().SetText("q2", "yes")

	_, err := s.Submit(context.Background())
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Feedback already submitted", serr.Error())
	assert.Equal(t, 2, s.Answers().Len(), "answers survive a failed submit")
}

func TestSession_SubmitFallbackMessage(t *testing.T) {
	mux := http.NewServeMux()
	detail := activeFacultyForm()
	detail.FormType = types.FormTypeInstitutionFeedback
	base := "/api/academic-swo/institution-feedback"
	mux.HandleFunc("GET "+base+"/public", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, []types.FeedbackForm{detail.FeedbackForm})
	})
	mux.HandleFunc("GET "+base+"/public/f1", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, detail)
	})
	mux.HandleFunc("POST "+base+"/f1/submit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewSession(New(srv.URL+"/api"), feedback.Scope{FormType: types.FormTypeInstitutionFeedback})
	require.NoError(t, s.Load(context.Background()))
	s.Answers().SetRating("q1", 3)
	s.Answers().SetText("q2", "yes")

	_, err := s.Submit(context.Background())
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, MsgSubmitFailed, serr.Error())
}

func TestSession_SubmitWithoutForm(t *testing.T) {
	s := NewSession(New("http://127.0.0.1:1/api"), feedback.Scope{FormType: types.FormTypeGraduateExitSurvey})
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveForm)
}

func TestSession_SaveDraftSkipsMandatoryCheck(t *testing.T) {
	api, c := newFakeAPI(t)
	var draft types.DraftRequest
	api.mux.HandleFunc("PUT "+facultyBase+"/f1/draft", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		writeData(w, http.StatusOK, types.FeedbackResponse{ID: "r1", ResponseStatus: types.ResponseStatusDraft})
	})

	s := NewSession(c, feedback.Scope{FormType: types.FormTypeFacultyFeedback})
	require.NoError(t, s.Load(context.Background()))
	s.Answers().SetRating("q1", 2)

	resp, err := s.SaveDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ResponseStatusDraft, resp.ResponseStatus)
	require.Len(t, draft.Answers, 1)
	assert.Equal(t, "q1", draft.Answers[0].QuestionID)
	assert.Nil(t, draft.FacultyID)
}
