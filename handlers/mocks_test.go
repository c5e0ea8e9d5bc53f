package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusdesk/swo-feedback/logger"
	"github.com/campusdesk/swo-feedback/middleware"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
}

type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) Create(ctx context.Context, formType types.FormType, userID string, req types.FormCreate) (*types.FormDetail, error) {
	args := m.Called(ctx, formType, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FormDetail), args.Error(1)
}

func (m *MockFormService) List(ctx context.Context, formType types.FormType, filter types.FormFilter) ([]types.FeedbackForm, error) {
	args := m.Called(ctx, formType, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FeedbackForm), args.Error(1)
}

func (m *MockFormService) GetDetail(ctx context.Context, formType types.FormType, id string) (*types.FormDetail, error) {
	args := m.Called(ctx, formType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FormDetail), args.Error(1)
}

func (m *MockFormService) Update(ctx context.Context, formType types.FormType, id, userID string, req types.FormUpdate) (*types.FormDetail, error) {
	args := m.Called(ctx, formType, id, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FormDetail), args.Error(1)
}

func (m *MockFormService) SetStatus(ctx context.Context, formType types.FormType, id, userID string, status types.FormStatus) (*types.StatusChangeResponse, error) {
	args := m.Called(ctx, formType, id, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StatusChangeResponse), args.Error(1)
}

type MockResponseService struct {
	mock.Mock
}

func (m *MockResponseService) Submit(ctx context.Context, formType types.FormType, formID string, who types.Respondent, req types.SubmitRequest) (*types.FeedbackResponse, error) {
	args := m.Called(ctx, formType, formID, who, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackResponse), args.Error(1)
}

func (m *MockResponseService) SaveDraft(ctx context.Context, formType types.FormType, formID string, who types.Respondent, req types.DraftRequest) (*types.FeedbackResponse, error) {
	args := m.Called(ctx, formType, formID, who, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackResponse), args.Error(1)
}

func (m *MockResponseService) List(ctx context.Context, formType types.FormType, filter types.ResponseFilter) ([]types.FeedbackResponse, types.Pagination, error) {
	args := m.Called(ctx, formType, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(types.Pagination), args.Error(2)
	}
	return args.Get(0).([]types.FeedbackResponse), args.Get(1).(types.Pagination), args.Error(2)
}

func (m *MockResponseService) FindOwn(ctx context.Context, formType types.FormType, formID string, who types.Respondent, facultyID *string) (*types.FeedbackResponse, error) {
	args := m.Called(ctx, formType, formID, who, facultyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackResponse), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Report(ctx context.Context, formID string, facultyID *string) (*types.FormReport, error) {
	args := m.Called(ctx, formID, facultyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FormReport), args.Error(1)
}

func (m *MockReportService) ExportCSV(ctx context.Context, formID string, facultyID *string) (string, []byte, error) {
	args := m.Called(ctx, formID, facultyID)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockReportService) Archive(ctx context.Context, formID string, facultyID *string) (*types.ReportArchive, error) {
	args := m.Called(ctx, formID, facultyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ReportArchive), args.Error(1)
}

func (m *MockReportService) EmailReport(ctx context.Context, formID string, req types.ReportEmailRequest) error {
	return m.Called(ctx, formID, req).Error(0)
}

type MockFacultyService struct {
	mock.Mock
}

func (m *MockFacultyService) ListActive(ctx context.Context, departmentID *string) ([]types.Faculty, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Faculty), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	return m.Called(ctx).Get(0).(types.HealthCheck)
}

// identity stands in for the auth middleware.
type identity struct {
	userID, role, department string
}

func (id identity) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id.userID != "" {
			c.Set(middleware.UserIDKey, id.userID)
			c.Set(middleware.UserRoleKey, id.role)
		}
		if id.department != "" {
			c.Set(middleware.DepartmentIDKey, id.department)
		}
		c.Next()
	}
}

var (
	adminUser   = identity{userID: "admin-1", role: middleware.RoleAdmin}
	studentUser = identity{userID: "student-1", role: middleware.RoleStudent, department: "cs"}
)

func newTestEngine(id identity) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(), id.handler())
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Code    string          `json:"code"`
	Details string          `json:"details"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
