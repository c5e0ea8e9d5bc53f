package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmission() *types.FeedbackResponse {
	return &types.FeedbackResponse{
		ID:               "resp-1",
		FormID:           "form-1",
		RespondentUserID: "student-1",
		RespondentType:   types.RespondentStudent,
		FacultyID:        strPtr("fac-1"),
		Answers: []types.AnswerDetail{
			{QuestionID: "q1", AnswerRating: intPtr(4)},
			{QuestionID: "q2", AnswerText: strPtr("Clear explanations")},
		},
	}
}

func TestResponseStore_Submit_NewResponse(t *testing.T) {
	mock := newMock(t)
	s := NewResponseStore(mock)
	resp := newSubmission()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM feedback_forms WHERE id = \$1 FOR SHARE`).WithArgs("form-1").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("form-1"))
	mock.ExpectQuery(`FROM feedback_responses WHERE form_id = \$1 .+ FOR UPDATE`).
		WithArgs("form-1", "student-1", resp.FacultyID).
		WillReturnRows(mock.NewRows(responseCols))
	mock.ExpectQuery(`INSERT INTO feedback_responses`).
		WithArgs("resp-1", "form-1", "student-1", "student", resp.FacultyID, "Submitted", pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedTime, fixedTime))
	mock.ExpectCopyFrom(pgx.Identifier{"answer_details"}, answerColumns).WillReturnResult(2)
	mock.ExpectCommit()

	out, err := s.Submit(context.Background(), resp)
	require.NoError(t, err)
	assert.Equal(t, types.ResponseStatusSubmitted, out.ResponseStatus)
	require.NotNil(t, out.SubmittedTime)
	assert.Equal(t, "resp-1", out.Answers[0].ResponseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseStore_Submit_PromotesDraft(t *testing.T) {
	mock := newMock(t)
	s := NewResponseStore(mock)
	resp := newSubmission()
	resp.ID = ""

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM feedback_forms WHERE id = \$1 FOR SHARE`).WithArgs("form-1").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("form-1"))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("form-1", "student-1", resp.FacultyID).
		WillReturnRows(mock.NewRows(responseCols).AddRow(
			"draft-7", "form-1", "student-1", "student", resp.FacultyID, "Draft", nil, fixedTime, fixedTime))
	mock.ExpectQuery(`UPDATE feedback_responses SET respondent_type = \$2`).
		WithArgs("draft-7", "student", "Submitted", pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows([]string{"updated_at"}).AddRow(fixedTime.Add(time.Hour)))
	mock.ExpectExec(`DELETE FROM answer_details`).WithArgs("draft-7").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"answer_details"}, answerColumns).WillReturnResult(2)
	mock.ExpectCommit()

	out, err := s.Submit(context.Background(), resp)
	require.NoError(t, err)
	assert.Equal(t, "draft-7", out.ID)
	assert.Equal(t, fixedTime, out.CreatedAt)
	assert.Equal(t, "draft-7", out.Answers[1].ResponseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseStore_Submit_SecondSubmissionConflicts(t *testing.T) {
	mock := newMock(t)
	s := NewResponseStore(mock)
	resp := newSubmission()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM feedback_forms WHERE id = \$1 FOR SHARE`).WithArgs("form-1").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("form-1"))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("form-1", "student-1", resp.FacultyID).
		WillReturnRows(mock.NewRows(responseCols).AddRow(
			"resp-0", "form-1", "student-1", "student", resp.FacultyID, "Submitted", &fixedTime, fixedTime, fixedTime))
	mock.ExpectRollback()

	_, err := s.Submit(context.Background(), resp)
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseStore_SaveDraft_NoAnswers(t *testing.T) {
	mock := newMock(t)
	s := NewResponseStore(mock)
	resp := &types.FeedbackResponse{
		ID: "d1", FormID: "form-2", RespondentUserID: "grad-1", RespondentType: types.RespondentGraduate,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM feedback_forms WHERE id = \$1 FOR SHARE`).WithArgs("form-2").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("form-2"))
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("form-2", "grad-1", (*string)(nil)).
		WillReturnRows(mock.NewRows(responseCols))
	mock.ExpectQuery(`INSERT INTO feedback_responses`).
		WithArgs("d1", "form-2", "grad-1", "graduate", (*string)(nil), "Draft", (*time.Time)(nil)).
		WillReturnRows(mock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedTime, fixedTime))
	mock.ExpectCommit()

	out, err := s.SaveDraft(context.Background(), resp)
	require.NoError(t, err)
	assert.Equal(t, types.ResponseStatusDraft, out.ResponseStatus)
	assert.Nil(t, out.SubmittedTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseStore_Submit_FormGone(t *testing.T) {
	mock := newMock(t)
	s := NewResponseStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR SHARE`).WithArgs("form-1").WillReturnRows(mock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := s.Submit(context.Background(), newSubmission())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseStore_ListResponses(t *testing.T) {
	mock := newMock(t)
	s := NewResponseStore(mock)
	submitted := types.ResponseStatusSubmitted

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM feedback_responses WHERE form_id = \$1 AND response_status = \$2`).
		WithArgs("form-1", "Submitted").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY created_at DESC, id LIMIT \$3 OFFSET \$4`).
		WithArgs("form-1", "Submitted", 50, 0).
		WillReturnRows(mock.NewRows(responseCols).AddRow(
			"r1", "form-1", "student-1", "student", nil, "Submitted", &fixedTime, fixedTime, fixedTime))

	items, total, err := s.ListResponses(context.Background(), types.ResponseFilter{FormID: "form-1", Status: &submitted})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, types.RespondentStudent, items[0].RespondentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseStore_ListSubmittedAnswers(t *testing.T) {
	mock := newMock(t)
	s := NewResponseStore(mock)

	cols := []string{"id", "respondent_user_id", "respondent_type", "faculty_id", "submitted_time",
		"question_id", "answer_rating", "answer_text"}
	mock.ExpectQuery(`JOIN answer_details a ON a.response_id = r.id`).
		WithArgs("form-1", (*string)(nil)).
		WillReturnRows(mock.NewRows(cols).
			AddRow("r1", "u1", "student", nil, fixedTime, "q1", intPtr(5), nil).
			AddRow("r1", "u1", "student", nil, fixedTime, "q2", nil, strPtr("great")))

	answers, err := s.ListSubmittedAnswers(context.Background(), "form-1", nil)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, 5, *answers[0].AnswerRating)
	assert.Equal(t, "great", *answers[1].AnswerText)
}

func TestResponseStore_GetResponse(t *testing.T) {
	mock := newMock(t)
	s := NewResponseStore(mock)

	mock.ExpectQuery(`FROM feedback_responses WHERE id = \$1`).WithArgs("r1").
		WillReturnRows(mock.NewRows(responseCols).AddRow(
			"r1", "form-1", "u1", "faculty", nil, "Submitted", &fixedTime, fixedTime, fixedTime))
	mock.ExpectQuery(`FROM answer_details WHERE response_id = \$1`).WithArgs("r1").
		WillReturnRows(mock.NewRows([]string{"response_id", "question_id", "answer_rating", "answer_text"}).
			AddRow("r1", "q1", intPtr(3), nil))

	resp, err := s.GetResponse(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, resp.Answers, 1)
	assert.Equal(t, 3, *resp.Answers[0].AnswerRating)
	assert.Nil(t, resp.Answers[0].AnswerText)

	mock.ExpectQuery(`FROM feedback_responses WHERE id = \$1`).WithArgs("missing").
		WillReturnRows(mock.NewRows(responseCols))
	_, err = s.GetResponse(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResponseStore_DeleteStaleDrafts(t *testing.T) {
	mock := newMock(t)
	s := NewResponseStore(mock)
	cutoff := fixedTime.AddDate(0, 0, -30)

	mock.ExpectExec(`DELETE FROM feedback_responses WHERE response_status = 'Draft'`).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := s.DeleteStaleDrafts(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
