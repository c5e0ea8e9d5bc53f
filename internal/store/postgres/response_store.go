package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const responseColumns = `id, form_id, respondent_user_id, respondent_type, faculty_id,
		response_status, submitted_time, created_at, updated_at`

const (
	selectResponseByID = `SELECT ` + responseColumns + `
		FROM feedback_responses
		WHERE id = $1`

	selectExistingResponse = `SELECT ` + responseColumns + `
		FROM feedback_responses
		WHERE form_id = $1
		  AND respondent_user_id = $2
		  AND faculty_id IS NOT DISTINCT FROM $3`

	lockExistingResponse = selectExistingResponse + `
		FOR UPDATE`

	// Conflicts with the FOR UPDATE lock a schema replacement holds.
	shareLockForm = `SELECT id FROM feedback_forms WHERE id = $1 FOR SHARE`

	insertResponse = `INSERT INTO feedback_responses
		(id, form_id, respondent_user_id, respondent_type, faculty_id, response_status, submitted_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	updateResponse = `UPDATE feedback_responses
		SET respondent_type = $2, response_status = $3, submitted_time = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	deleteAnswers = `DELETE FROM answer_details WHERE response_id = $1`

	selectAnswers = `SELECT response_id, question_id, answer_rating, answer_text
		FROM answer_details
		WHERE response_id = $1
		ORDER BY question_id`

	selectSubmittedAnswers = `SELECT r.id, r.respondent_user_id, r.respondent_type, r.faculty_id, r.submitted_time,
		a.question_id, a.answer_rating, a.answer_text
		FROM feedback_responses r
		JOIN answer_details a ON a.response_id = r.id
		WHERE r.form_id = $1
		  AND r.response_status = 'Submitted'
		  AND ($2::uuid IS NULL OR r.faculty_id = $2::uuid)
		ORDER BY r.submitted_time, r.id, a.question_id`

	deleteStaleDrafts = `DELETE FROM feedback_responses
		WHERE response_status = 'Draft' AND updated_at < $1`
)

var answerColumns = []string{"response_id", "question_id", "answer_rating", "answer_text"}

// ResponseStore implements store.ResponseStore on PostgreSQL.
type ResponseStore struct {
	db DB
}

var _ store.ResponseStore = (*ResponseStore)(nil)

func NewResponseStore(db DB) *ResponseStore {
	return &ResponseStore{db: db}
}

// SaveDraft upserts the Draft for (form, respondent, faculty) and replaces its answers.
func (s *ResponseStore) SaveDraft(ctx context.Context, resp *types.FeedbackResponse) (*types.FeedbackResponse, error) {
	resp.ResponseStatus = types.ResponseStatusDraft
	resp.SubmittedTime = nil
	if err := s.upsert(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Submit stores resp as Submitted, promoting an existing Draft.
func (s *ResponseStore) Submit(ctx context.Context, resp *types.FeedbackResponse) (*types.FeedbackResponse, error) {
	now := time.Now().UTC()
	resp.ResponseStatus = types.ResponseStatusSubmitted
	resp.SubmittedTime = &now
	if err := s.upsert(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ResponseStore) upsert(ctx context.Context, resp *types.FeedbackResponse) error {
	return WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var formID string
		if err := tx.QueryRow(ctx, shareLockForm, resp.FormID).Scan(&formID); err != nil {
			return fmt.Errorf("failed to lock form %s: %w", resp.FormID, mapError(err))
		}

		existing, err := scanResponse(tx.QueryRow(ctx, lockExistingResponse,
			resp.FormID, resp.RespondentUserID, resp.FacultyID))
		switch mapped := mapError(err); {
		case mapped == nil:
			if existing.ResponseStatus == types.ResponseStatusSubmitted {
				return fmt.Errorf("%w: response already submitted", store.ErrConflict)
			}
			resp.ID = existing.ID
			resp.CreatedAt = existing.CreatedAt
			if err := tx.QueryRow(ctx, updateResponse,
				resp.ID, string(resp.RespondentType), string(resp.ResponseStatus), resp.SubmittedTime,
			).Scan(&resp.UpdatedAt); err != nil {
				return fmt.Errorf("failed to update response: %w", mapError(err))
			}
			if _, err := tx.Exec(ctx, deleteAnswers, resp.ID); err != nil {
				return fmt.Errorf("failed to clear answers: %w", err)
			}
		case errors.Is(mapped, store.ErrNotFound):
			if resp.ID == "" {
				resp.ID = uuid.NewString()
			}
			if err := tx.QueryRow(ctx, insertResponse,
				resp.ID,
				resp.FormID,
				resp.RespondentUserID,
				string(resp.RespondentType),
				resp.FacultyID,
				string(resp.ResponseStatus),
				resp.SubmittedTime,
			).Scan(&resp.CreatedAt, &resp.UpdatedAt); err != nil {
				return fmt.Errorf("failed to insert response: %w", mapError(err))
			}
		default:
			return fmt.Errorf("failed to look up existing response: %w", mapped)
		}

		if len(resp.Answers) == 0 {
			return nil
		}
		rows := make([][]any, 0, len(resp.Answers))
		for i := range resp.Answers {
			resp.Answers[i].ResponseID = resp.ID
			a := resp.Answers[i]
			rows = append(rows, []any{a.ResponseID, a.QuestionID, a.AnswerRating, a.AnswerText})
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"answer_details"}, answerColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("failed to insert answers: %w", mapError(err))
		}
		return nil
	})
}

// GetResponse returns a response with its answers.
func (s *ResponseStore) GetResponse(ctx context.Context, id string) (*types.FeedbackResponse, error) {
	resp, err := scanResponse(s.db.QueryRow(ctx, selectResponseByID, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get response %s: %w", id, mapError(err))
	}
	if resp.Answers, err = s.listAnswers(ctx, id); err != nil {
		return nil, err
	}
	return resp, nil
}

// FindExisting returns the response a respondent already has for (form, faculty),
// with its answers, or store.ErrNotFound.
func (s *ResponseStore) FindExisting(ctx context.Context, formID, respondentUserID string, facultyID *string) (*types.FeedbackResponse, error) {
	resp, err := scanResponse(s.db.QueryRow(ctx, selectExistingResponse, formID, respondentUserID, facultyID))
	if err != nil {
		return nil, fmt.Errorf("failed to find response: %w", mapError(err))
	}
	if resp.Answers, err = s.listAnswers(ctx, resp.ID); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListResponses returns one page of responses for a form together with the total count.
func (s *ResponseStore) ListResponses(ctx context.Context, filter types.ResponseFilter) ([]types.FeedbackResponse, int, error) {
	conds := []string{"form_id = $1"}
	args := []any{filter.FormID}
	if filter.FacultyID != nil {
		args = append(args, *filter.FacultyID)
		conds = append(conds, fmt.Sprintf("faculty_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("response_status = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM feedback_responses WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count responses: %w", mapError(err))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM feedback_responses WHERE %s
		ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, responseColumns, where, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list responses: %w", mapError(err))
	}
	defer rows.Close()

	out := []types.FeedbackResponse{}
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan response: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListSubmittedAnswers returns every answer of every Submitted response to the
// form, optionally narrowed to one rated faculty member.
func (s *ResponseStore) ListSubmittedAnswers(ctx context.Context, formID string, facultyID *string) ([]types.SubmittedAnswer, error) {
	rows, err := s.db.Query(ctx, selectSubmittedAnswers, formID, facultyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submitted answers: %w", mapError(err))
	}
	defer rows.Close()

	var out []types.SubmittedAnswer
	for rows.Next() {
		var a types.SubmittedAnswer
		if err := rows.Scan(
			&a.ResponseID,
			&a.RespondentUserID,
			&a.RespondentType,
			&a.FacultyID,
			&a.SubmittedTime,
			&a.QuestionID,
			&a.AnswerRating,
			&a.AnswerText,
		); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list submitted answers: %w", mapError(err))
	}
	return out, nil
}

// DeleteStaleDrafts removes Draft responses not touched since olderThan.
func (s *ResponseStore) DeleteStaleDrafts(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteStaleDrafts, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *ResponseStore) listAnswers(ctx context.Context, responseID string) ([]types.AnswerDetail, error) {
	rows, err := s.db.Query(ctx, selectAnswers, responseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	answers := []types.AnswerDetail{}
	for rows.Next() {
		var a types.AnswerDetail
		if err := rows.Scan(&a.ResponseID, &a.QuestionID, &a.AnswerRating, &a.AnswerText); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func scanResponse(row pgx.Row) (*types.FeedbackResponse, error) {
	var r types.FeedbackResponse
	err := row.Scan(
		&r.ID,
		&r.FormID,
		&r.RespondentUserID,
		&r.RespondentType,
		&r.FacultyID,
		&r.ResponseStatus,
		&r.SubmittedTime,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
