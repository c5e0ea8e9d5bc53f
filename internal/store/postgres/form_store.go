package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusdesk/swo-feedback/internal/feedback"
	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const formColumns = `id, form_type, title, description, status, department_id, semester_id,
		is_mandatory, created_by, created_at, updated_at`

const (
	selectFormByID = `SELECT ` + formColumns + `
		FROM feedback_forms
		WHERE id = $1`

	selectFormForUpdate = selectFormByID + `
		FOR UPDATE`

	selectActiveSiblings = `SELECT ` + formColumns + `
		FROM feedback_forms
		WHERE form_type = $1
		  AND COALESCE(department_id, '') = COALESCE($2::text, '')
		  AND COALESCE(semester_id, '') = COALESCE($3::text, '')
		  AND status = 'Active'
		  AND id <> $4
		FOR UPDATE`

	deactivateForms = `UPDATE feedback_forms
		SET status = 'Inactive', updated_at = NOW()
		WHERE id = ANY($1::uuid[])`

	updateFormStatus = `UPDATE feedback_forms
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	insertForm = `INSERT INTO feedback_forms
		(id, form_type, title, description, status, department_id, semester_id, is_mandatory, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	insertArea = `INSERT INTO feedback_areas
		(id, form_id, area_name, area_description, sort_order, is_mandatory)
		VALUES ($1, $2, $3, $4, $5, $6)`

	insertQuestion = `INSERT INTO feedback_questions
		(id, form_id, area_id, question_text, question_type, scale_min, scale_max,
		 scale_min_label, scale_max_label, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	selectAreas = `SELECT id, form_id, area_name, area_description, sort_order, is_mandatory
		FROM feedback_areas
		WHERE form_id = $1
		ORDER BY sort_order, id`

	selectQuestions = `SELECT id, form_id, area_id, question_text, question_type, scale_min, scale_max,
		scale_min_label, scale_max_label, sort_order
		FROM feedback_questions
		WHERE form_id = $1
		ORDER BY sort_order, id`

	updateForm = `UPDATE feedback_forms SET
		title = COALESCE($2, title),
		description = COALESCE($3, description),
		department_id = CASE WHEN $4::boolean THEN $5::text ELSE department_id END,
		semester_id = CASE WHEN $6::boolean THEN $7::text ELSE semester_id END,
		is_mandatory = COALESCE($8, is_mandatory),
		updated_at = NOW()
		WHERE id = $1
		RETURNING ` + formColumns

	deleteQuestions = `DELETE FROM feedback_questions WHERE form_id = $1`
	deleteAreas     = `DELETE FROM feedback_areas WHERE form_id = $1`

	countResponses = `SELECT COUNT(*) FROM feedback_responses WHERE form_id = $1`
)

// FormStore implements store.FormStore on PostgreSQL.
type FormStore struct {
	db DB
}

var _ store.FormStore = (*FormStore)(nil)

func NewFormStore(db DB) *FormStore {
	return &FormStore{db: db}
}

// CreateForm inserts the form, its areas and questions in one transaction.
func (s *FormStore) CreateForm(ctx context.Context, detail *types.FormDetail) ([]string, error) {
	if detail.ID == "" {
		detail.ID = uuid.NewString()
	}
	var deactivated []string
	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if detail.Status == types.FormStatusActive {
			plan, err := planAndDeactivate(ctx, tx, detail.FeedbackForm, types.FormStatusActive)
			if err != nil {
				return err
			}
			deactivated = plan.Deactivate
		}

		f := &detail.FeedbackForm
		err := tx.QueryRow(ctx, insertForm,
			f.ID,
			string(f.FormType),
			f.Title,
			f.Description,
			string(f.Status),
			f.DepartmentID,
			f.SemesterID,
			f.IsMandatory,
			f.CreatedBy,
		).Scan(&f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert form: %w", mapError(err))
		}

		return insertSchema(ctx, tx, f.ID, detail.Areas, detail.Questions)
	})
	if err != nil {
		return nil, err
	}
	return deactivated, nil
}

// GetForm returns the form row without its schema.
func (s *FormStore) GetForm(ctx context.Context, id string) (*types.FeedbackForm, error) {
	f, err := scanForm(s.db.QueryRow(ctx, selectFormByID, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get form %s: %w", id, mapError(err))
	}
	return f, nil
}

// GetFormDetail returns the form with its areas and questions. Questions that
// belong to no area are returned in the flat Questions list.
func (s *FormStore) GetFormDetail(ctx context.Context, id string) (*types.FormDetail, error) {
	f, err := s.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}
	areas, err := s.listAreas(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.listQuestions(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	detail := &types.FormDetail{FeedbackForm: *f, Areas: areas}
	index := make(map[string]int, len(areas))
	for i := range detail.Areas {
		index[detail.Areas[i].ID] = i
		detail.Areas[i].Questions = []types.FeedbackQuestion{}
	}
	for _, q := range questions {
		if q.AreaID != nil {
			if i, ok := index[*q.AreaID]; ok {
				detail.Areas[i].Questions = append(detail.Areas[i].Questions, q)
				continue
			}
		}
		detail.Questions = append(detail.Questions, q)
	}
	return detail, nil
}

// ListForms returns the forms matching filter, newest first.
func (s *FormStore) ListForms(ctx context.Context, filter types.FormFilter) ([]types.FeedbackForm, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.FormType != "" {
		add("form_type = $%d", string(filter.FormType))
	}
	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.DepartmentID != nil {
		add("department_id = $%d", *filter.DepartmentID)
	}
	if filter.SemesterID != nil {
		add("semester_id = $%d", *filter.SemesterID)
	}

	query := `SELECT ` + formColumns + ` FROM feedback_forms`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	return collectForms(rows)
}

// UpdateForm applies the metadata in update and, when schema is set, swaps
// the whole area/question layout. The form row stays locked FOR UPDATE until
// commit. A department or semester set to "" is cleared.
func (s *FormStore) UpdateForm(ctx context.Context, id string, update types.FormUpdate, schema *store.SchemaReplacement) (*types.FeedbackForm, error) {
	var out *types.FeedbackForm
	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := scanForm(tx.QueryRow(ctx, selectFormForUpdate, id)); err != nil {
			return fmt.Errorf("failed to lock form %s: %w", id, mapError(err))
		}

		if schema != nil {
			var n int
			if err := tx.QueryRow(ctx, countResponses, id).Scan(&n); err != nil {
				return fmt.Errorf("failed to count responses: %w", err)
			}
			if n > 0 {
				return fmt.Errorf("%w: %d responses reference the current questions", store.ErrHasResponses, n)
			}
			if _, err := tx.Exec(ctx, deleteQuestions, id); err != nil {
				return fmt.Errorf("failed to delete questions: %w", mapError(err))
			}
			if _, err := tx.Exec(ctx, deleteAreas, id); err != nil {
				return fmt.Errorf("failed to delete areas: %w", mapError(err))
			}
			if err := insertSchema(ctx, tx, id, schema.Areas, schema.Questions); err != nil {
				return err
			}
		}

		f, err := scanForm(tx.QueryRow(ctx, updateForm,
			id,
			update.Title,
			update.Description,
			update.DepartmentID != nil,
			feedback.CleanScopeID(update.DepartmentID),
			update.SemesterID != nil,
			feedback.CleanScopeID(update.SemesterID),
			update.IsMandatory,
		))
		if err != nil {
			return fmt.Errorf("failed to update form %s: %w", id, mapError(err))
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus moves a form to status. Activation deactivates every other Active
// form in the same scope within the same transaction; setting the current
// status again changes nothing.
func (s *FormStore) SetStatus(ctx context.Context, id string, status types.FormStatus) (*store.StatusChange, error) {
	var change store.StatusChange
	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		target, err := scanForm(tx.QueryRow(ctx, selectFormForUpdate, id))
		if err != nil {
			return fmt.Errorf("failed to lock form %s: %w", id, mapError(err))
		}
		change.Previous = target.Status

		plan, err := planAndDeactivate(ctx, tx, *target, status)
		if err != nil {
			return err
		}
		change.Deactivated = plan.Deactivate

		if target.Status != status {
			if err := tx.QueryRow(ctx, updateFormStatus, id, string(status)).Scan(&target.UpdatedAt); err != nil {
				return fmt.Errorf("failed to update status: %w", mapError(err))
			}
			target.Status = status
		}
		change.Changed = !plan.Noop
		change.Form = *target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &change, nil
}

// planAndDeactivate locks the Active siblings of target when activating,
// plans the change and deactivates the siblings the plan names.
func planAndDeactivate(ctx context.Context, tx pgx.Tx, target types.FeedbackForm, desired types.FormStatus) (feedback.StatusPlan, error) {
	var siblings []types.FeedbackForm
	if desired == types.FormStatusActive {
		rows, err := tx.Query(ctx, selectActiveSiblings,
			string(target.FormType), target.DepartmentID, target.SemesterID, target.ID)
		if err != nil {
			return feedback.StatusPlan{}, fmt.Errorf("failed to lock sibling forms: %w", err)
		}
		if siblings, err = collectForms(rows); err != nil {
			return feedback.StatusPlan{}, err
		}
	}

	plan, err := feedback.PlanStatusChange(target, desired, siblings)
	if err != nil {
		return feedback.StatusPlan{}, err
	}
	if len(plan.Deactivate) > 0 {
		if _, err := tx.Exec(ctx, deactivateForms, plan.Deactivate); err != nil {
			return feedback.StatusPlan{}, fmt.Errorf("failed to deactivate sibling forms: %w", err)
		}
	}
	return plan, nil
}

// insertSchema writes areas and questions in order. Missing ids are generated
// and written back into the slices so callers see the stored identifiers.
func insertSchema(ctx context.Context, tx pgx.Tx, formID string, areas []types.FeedbackArea, flat []types.FeedbackQuestion) error {
	for i := range areas {
		a := &areas[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.FormID = formID
		for j := range a.Questions {
			q := &a.Questions[j]
			if q.ID == "" {
				q.ID = uuid.NewString()
			}
			q.FormID = formID
			areaID := a.ID
			q.AreaID = &areaID
		}
	}
	for i := range flat {
		if flat[i].ID == "" {
			flat[i].ID = uuid.NewString()
		}
		flat[i].FormID = formID
		flat[i].AreaID = nil
	}

	for _, a := range areas {
		if _, err := tx.Exec(ctx, insertArea,
			a.ID, a.FormID, a.AreaName, a.AreaDescription, a.SortOrder, a.IsMandatory,
		); err != nil {
			return fmt.Errorf("failed to insert area %q: %w", a.AreaName, mapError(err))
		}
		for _, q := range a.Questions {
			if err := execInsertQuestion(ctx, tx, q); err != nil {
				return err
			}
		}
	}
	for _, q := range flat {
		if err := execInsertQuestion(ctx, tx, q); err != nil {
			return err
		}
	}
	return nil
}

func execInsertQuestion(ctx context.Context, tx pgx.Tx, q types.FeedbackQuestion) error {
	_, err := tx.Exec(ctx, insertQuestion,
		q.ID,
		q.FormID,
		q.AreaID,
		q.QuestionText,
		string(q.QuestionType),
		q.ScaleMin,
		q.ScaleMax,
		q.ScaleMinLabel,
		q.ScaleMaxLabel,
		q.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question %q: %w", q.QuestionText, mapError(err))
	}
	return nil
}

func (s *FormStore) listAreas(ctx context.Context, q querier, formID string) ([]types.FeedbackArea, error) {
	rows, err := q.Query(ctx, selectAreas, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	defer rows.Close()

	areas := []types.FeedbackArea{}
	for rows.Next() {
		var a types.FeedbackArea
		if err := rows.Scan(&a.ID, &a.FormID, &a.AreaName, &a.AreaDescription, &a.SortOrder, &a.IsMandatory); err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (s *FormStore) listQuestions(ctx context.Context, q querier, formID string) ([]types.FeedbackQuestion, error) {
	rows, err := q.Query(ctx, selectQuestions, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []types.FeedbackQuestion
	for rows.Next() {
		var fq types.FeedbackQuestion
		if err := rows.Scan(
			&fq.ID,
			&fq.FormID,
			&fq.AreaID,
			&fq.QuestionText,
			&fq.QuestionType,
			&fq.ScaleMin,
			&fq.ScaleMax,
			&fq.ScaleMinLabel,
			&fq.ScaleMaxLabel,
			&fq.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, fq)
	}
	return questions, rows.Err()
}

func scanForm(row pgx.Row) (*types.FeedbackForm, error) {
	var f types.FeedbackForm
	err := row.Scan(
		&f.ID,
		&f.FormType,
		&f.Title,
		&f.Description,
		&f.Status,
		&f.DepartmentID,
		&f.SemesterID,
		&f.IsMandatory,
		&f.CreatedBy,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func collectForms(rows pgx.Rows) ([]types.FeedbackForm, error) {
	defer rows.Close()
	forms := []types.FeedbackForm{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan form: %w", err)
		}
		forms = append(forms, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate forms: %w", err)
	}
	return forms, nil
}
