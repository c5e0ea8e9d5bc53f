package feedback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campusdesk/swo-feedback/types"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ApplyDefaults fills in the values an administrator may omit: new forms start
// Inactive, areas are mandatory unless stated otherwise, and rating questions
// use the 1-5 scale. Scale fields on non-rating questions are cleared, and a
// blank department or semester means the form is not scoped by it.
func ApplyDefaults(fc *types.FormCreate) {
	if fc.Status == "" {
		fc.Status = types.FormStatusInactive
	}
	fc.Title = strings.TrimSpace(fc.Title)
	fc.DepartmentID = CleanScopeID(fc.DepartmentID)
	fc.SemesterID = CleanScopeID(fc.SemesterID)
	for i := range fc.Areas {
		if fc.Areas[i].IsMandatory == nil {
			mandatory := true
			fc.Areas[i].IsMandatory = &mandatory
		}
		applyQuestionDefaults(fc.Areas[i].Questions)
	}
	applyQuestionDefaults(fc.Questions)
}

func applyQuestionDefaults(qs []types.QuestionCreate) {
	for i := range qs {
		q := &qs[i]
		if q.QuestionType != types.QuestionTypeRating {
			q.ScaleMin, q.ScaleMax = nil, nil
			q.ScaleMinLabel, q.ScaleMaxLabel = "", ""
			continue
		}
		if q.ScaleMin == nil {
			lo := types.DefaultScaleMin
			q.ScaleMin = &lo
		}
		if q.ScaleMax == nil {
			hi := types.DefaultScaleMax
			q.ScaleMax = &hi
		}
	}
}

// ValidateDefinition checks a form definition before it is stored.
func ValidateDefinition(fc types.FormCreate) error {
	if !fc.FormType.IsValid() {
		return definitionError("unknown form type %q", fc.FormType)
	}
	if strings.TrimSpace(fc.Title) == "" {
		return definitionError("title is required")
	}
	if fc.Status != "" && !fc.Status.IsValid() {
		return definitionError("status must be Active or Inactive")
	}
	if err := validate.Struct(fc); err != nil {
		return fromValidator(err)
	}
	return ValidateSchema(fc.Areas, fc.Questions)
}

// ValidateSchema checks the area/question layout of a definition: one shape
// only, unique sort orders, and well-formed rating scales.
func ValidateSchema(areas []types.AreaCreate, questions []types.QuestionCreate) error {
	if len(areas) > 0 && len(questions) > 0 {
		return definitionError("a form has either areas or a flat question list, not both")
	}

	if len(areas) == 0 {
		if len(questions) == 0 {
			return definitionError("a form needs at least one question")
		}
		return validateQuestions("", questions)
	}

	areaOrders := make(map[int]string, len(areas))
	total := 0
	for _, a := range areas {
		name := strings.TrimSpace(a.AreaName)
		if name == "" {
			return definitionError("area name is required")
		}
		if other, dup := areaOrders[a.SortOrder]; dup {
			return definitionError("areas %q and %q share sort_order %d", other, name, a.SortOrder)
		}
		areaOrders[a.SortOrder] = name
		if err := validateQuestions(name, a.Questions); err != nil {
			return err
		}
		total += len(a.Questions)
	}
	if total == 0 {
		return definitionError("a form needs at least one question")
	}
	return nil
}

func validateQuestions(area string, qs []types.QuestionCreate) error {
	orders := make(map[int]struct{}, len(qs))
	where := "the form"
	if area != "" {
		where = fmt.Sprintf("area %q", area)
	}

	for _, q := range qs {
		if strings.TrimSpace(q.QuestionText) == "" {
			return definitionError("question text is required in %s", where)
		}
		if !q.QuestionType.IsValid() {
			return definitionError("question %q has unknown type %q", q.QuestionText, q.QuestionType)
		}
		if _, dup := orders[q.SortOrder]; dup {
			return definitionError("sort_order %d is used twice in %s", q.SortOrder, where)
		}
		orders[q.SortOrder] = struct{}{}

		if q.QuestionType != types.QuestionTypeRating {
			continue
		}
		if q.ScaleMin == nil || q.ScaleMax == nil {
			return definitionError("rating question %q needs scale_min and scale_max", q.QuestionText)
		}
		if *q.ScaleMin >= *q.ScaleMax {
			return definitionError("rating question %q needs scale_min < scale_max", q.QuestionText)
		}
		if *q.ScaleMin < types.DefaultScaleMin || *q.ScaleMax > types.DefaultScaleMax {
			return definitionError("rating question %q must stay within %d-%d",
				q.QuestionText, types.DefaultScaleMin, types.DefaultScaleMax)
		}
	}
	return nil
}

func definitionError(format string, args ...interface{}) *ValidationError {
	return newValidationError(ReasonDefinition, "", format, args...)
}

func fromValidator(err error) *ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return definitionError("field %s failed on '%s'", fe.Namespace(), fe.Tag())
	}
	return definitionError("%s", err.Error())
}

// BuildLayout converts a validated definition into storable areas and questions.
// Ids are left empty for the store to assign; area links are set on insert.
func BuildLayout(areas []types.AreaCreate, questions []types.QuestionCreate) ([]types.FeedbackArea, []types.FeedbackQuestion) {
	outAreas := make([]types.FeedbackArea, 0, len(areas))
	for _, a := range areas {
		mandatory := true
		if a.IsMandatory != nil {
			mandatory = *a.IsMandatory
		}
		outAreas = append(outAreas, types.FeedbackArea{
			AreaName:        strings.TrimSpace(a.AreaName),
			AreaDescription: strings.TrimSpace(a.AreaDescription),
			SortOrder:       a.SortOrder,
			IsMandatory:     mandatory,
			Questions:       buildQuestions(a.Questions),
		})
	}
	return outAreas, buildQuestions(questions)
}

func buildQuestions(qs []types.QuestionCreate) []types.FeedbackQuestion {
	out := make([]types.FeedbackQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, types.FeedbackQuestion{
			QuestionText:  strings.TrimSpace(q.QuestionText),
			QuestionType:  q.QuestionType,
			ScaleMin:      q.ScaleMin,
			ScaleMax:      q.ScaleMax,
			ScaleMinLabel: q.ScaleMinLabel,
			ScaleMaxLabel: q.ScaleMaxLabel,
			SortOrder:     q.SortOrder,
		})
	}
	return out
}
