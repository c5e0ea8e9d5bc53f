package types

import (
	"strings"
	"time"
)

// FormType identifies which evaluation instrument a form belongs to.
type FormType string

const (
	FormTypeFacultyFeedback     FormType = "faculty_feedback"
	FormTypeInstitutionFeedback FormType = "institution_feedback"
	FormTypeGraduateExitSurvey  FormType = "graduate_exit_survey"
)

// AllFormTypes lists the supported categories in routing order.
var AllFormTypes = []FormType{
	FormTypeFacultyFeedback,
	FormTypeInstitutionFeedback,
	FormTypeGraduateExitSurvey,
}

// IsValid reports whether t is one of the known form types.
func (t FormType) IsValid() bool {
	switch t {
	case FormTypeFacultyFeedback, FormTypeInstitutionFeedback, FormTypeGraduateExitSurvey:
		return true
	}
	return false
}

// Slug returns the URL path segment used for the category, e.g. "faculty-feedback".
func (t FormType) Slug() string {
	return strings.ReplaceAll(string(t), "_", "-")
}

// RequiresTarget reports whether responses must name the faculty member being rated.
func (t FormType) RequiresTarget() bool {
	return t == FormTypeFacultyFeedback
}

// FormTypeFromSlug maps a URL segment back to its FormType.
func FormTypeFromSlug(slug string) (FormType, bool) {
	t := FormType(strings.ReplaceAll(slug, "-", "_"))
	return t, t.IsValid()
}

// FormStatus controls which form is currently presented to respondents.
type FormStatus string

const (
	FormStatusActive   FormStatus = "Active"
	FormStatusInactive FormStatus = "Inactive"
)

func (s FormStatus) IsValid() bool {
	return s == FormStatusActive || s == FormStatusInactive
}

// QuestionType drives which answer field a question expects.
type QuestionType string

const (
	QuestionTypeRating QuestionType = "rating"
	QuestionTypeText   QuestionType = "text"
	QuestionTypeYesNo  QuestionType = "yes_no"
)

func (q QuestionType) IsValid() bool {
	switch q {
	case QuestionTypeRating, QuestionTypeText, QuestionTypeYesNo:
		return true
	}
	return false
}

// Conventional rating bounds enforced for every rating question.
const (
	DefaultScaleMin = 1
	DefaultScaleMax = 5
)

// FeedbackForm is one evaluation instrument.
type FeedbackForm struct {
	ID           string     `json:"id"`
	FormType     FormType   `json:"form_type"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       FormStatus `json:"status"`
	DepartmentID *string    `json:"department_id,omitempty"`
	SemesterID   *string    `json:"semester_id,omitempty"`
	IsMandatory  bool       `json:"is_mandatory"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FeedbackArea is a named grouping of questions within a form.
type FeedbackArea struct {
	ID              string             `json:"id"`
	FormID          string             `json:"form_id"`
	AreaName        string             `json:"area_name"`
	AreaDescription string             `json:"area_description"`
	SortOrder       int                `json:"sort_order"`
	IsMandatory     bool               `json:"is_mandatory"`
	Questions       []FeedbackQuestion `json:"questions"`
}

// FeedbackQuestion is one prompt. AreaID is nil for flat forms.
type FeedbackQuestion struct {
	ID            string       `json:"id"`
	FormID        string       `json:"form_id"`
	AreaID        *string      `json:"area_id"`
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	ScaleMin      *int         `json:"scale_min,omitempty"`
	ScaleMax      *int         `json:"scale_max,omitempty"`
	ScaleMinLabel string       `json:"scale_min_label,omitempty"`
	ScaleMaxLabel string       `json:"scale_max_label,omitempty"`
	SortOrder     int          `json:"sort_order"`
}

// FormDetail is the detail-endpoint projection of a form with its schema.
// Grouped forms populate Areas; flat forms populate Questions only.
type FormDetail struct {
	FeedbackForm
	Areas     []FeedbackArea     `json:"areas,omitempty"`
	Questions []FeedbackQuestion `json:"questions,omitempty"`
	// AllQuestions is the legacy flat key some payloads still carry.
	AllQuestions []FeedbackQuestion `json:"allQuestions,omitempty"`
}

// FormFilter narrows catalog listings.
type FormFilter struct {
	FormType     FormType
	Status       *FormStatus
	DepartmentID *string
	SemesterID   *string
}

// QuestionCreate is the request shape of one question in a form definition.
type QuestionCreate struct {
	QuestionText  string       `json:"question_text" binding:"required,max=1000" validate:"required,max=1000"`
	QuestionType  QuestionType `json:"question_type" binding:"required,oneof=rating text yes_no" validate:"required,oneof=rating text yes_no"`
	ScaleMin      *int         `json:"scale_min,omitempty"`
	ScaleMax      *int         `json:"scale_max,omitempty"`
	ScaleMinLabel string       `json:"scale_min_label,omitempty" validate:"max=100"`
	ScaleMaxLabel string       `json:"scale_max_label,omitempty" validate:"max=100"`
	SortOrder     int          `json:"sort_order" validate:"gte=0"`
}

// AreaCreate is the request shape of one area in a form definition.
type AreaCreate struct {
	AreaName        string           `json:"area_name" binding:"required,max=255" validate:"required,max=255"`
	AreaDescription string           `json:"area_description,omitempty"`
	SortOrder       int              `json:"sort_order" validate:"gte=0"`
	IsMandatory     *bool            `json:"is_mandatory,omitempty"`
	Questions       []QuestionCreate `json:"questions" validate:"dive"`
}

// FormCreate is the request body for creating a form. Either Areas or the
// flat Questions list may be provided, never both.
type FormCreate struct {
	FormType     FormType         `json:"form_type,omitempty"`
	Title        string           `json:"title" binding:"required,max=255" validate:"required,max=255"`
	Description  string           `json:"description,omitempty"`
	Status       FormStatus       `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive"`
	DepartmentID *string          `json:"department_id,omitempty"`
	SemesterID   *string          `json:"semester_id,omitempty"`
	IsMandatory  bool             `json:"is_mandatory"`
	Areas        []AreaCreate     `json:"areas,omitempty" validate:"dive"`
	Questions    []QuestionCreate `json:"questions,omitempty" validate:"dive"`
}

// FormUpdate is the request body for PUT on a form. Nil fields are left unchanged;
// a non-nil Areas or Questions replaces the whole schema.
type FormUpdate struct {
	Title        *string          `json:"title,omitempty" binding:"omitempty,max=255"`
	Description  *string          `json:"description,omitempty"`
	DepartmentID *string          `json:"department_id,omitempty"`
	SemesterID   *string          `json:"semester_id,omitempty"`
	IsMandatory  *bool            `json:"is_mandatory,omitempty"`
	Areas        []AreaCreate     `json:"areas,omitempty"`
	Questions    []QuestionCreate `json:"questions,omitempty"`
}

// ReplacesSchema reports whether the update carries a new schema.
func (u FormUpdate) ReplacesSchema() bool {
	return u.Areas != nil || u.Questions != nil
}

// StatusUpdate is the PATCH body for the status toggle.
type StatusUpdate struct {
	Status FormStatus `json:"status" binding:"required,oneof=Active Inactive"`
}

// StatusChangeResponse is returned by the status toggle. Deactivated lists the
// sibling forms switched off by an activation.
type StatusChangeResponse struct {
	Form        FeedbackForm `json:"form"`
	Previous    FormStatus   `json:"previous_status"`
	Deactivated []string     `json:"deactivated"`
	Changed     bool         `json:"changed"`
}
