package postgres

import (
	"testing"
	"time"

	"github.com/campusdesk/swo-feedback/logger"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

var (
	formCols = []string{"id", "form_type", "title", "description", "status", "department_id",
		"semester_id", "is_mandatory", "created_by", "created_at", "updated_at"}
	responseCols = []string{"id", "form_id", "respondent_user_id", "respondent_type", "faculty_id",
		"response_status", "submitted_time", "created_at", "updated_at"}
	fixedTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func formRow(rows *pgxmock.Rows, id, formType, status string, dept, sem *string) *pgxmock.Rows {
	return rows.AddRow(id, formType, "Title "+id, "", status, dept, sem, false, "admin-1", fixedTime, fixedTime)
}
