package feedback

import (
	"testing"

	"github.com/campusdesk/swo-feedback/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefinition() types.FormCreate {
	return types.FormCreate{
		FormType: types.FormTypeFacultyFeedback,
		Title:    "Semester 5 Faculty Feedback",
		Areas: []types.AreaCreate{
			{
				AreaName:  "Teaching",
				SortOrder: 1,
				Questions: []types.QuestionCreate{
					{QuestionText: "Clarity", QuestionType: types.QuestionTypeRating, SortOrder: 1},
					{QuestionText: "Punctuality", QuestionType: types.QuestionTypeRating, SortOrder: 2},
				},
			},
			{
				AreaName:  "Comments",
				SortOrder: 2,
				Questions: []types.QuestionCreate{
					{QuestionText: "Anything else?", QuestionType: types.QuestionTypeText, SortOrder: 1},
				},
			},
		},
	}
}

func TestApplyDefaults(t *testing.T) {
	fc := validDefinition()
	fc.Title = "  padded  "
	fc.Areas[1].Questions[0].ScaleMin = intPtr(1)
	ApplyDefaults(&fc)

	assert.Equal(t, types.FormStatusInactive, fc.Status)
	assert.Equal(t, "padded", fc.Title)
	require.NotNil(t, fc.Areas[0].IsMandatory)
	assert.True(t, *fc.Areas[0].IsMandatory)
	assert.Equal(t, 1, *fc.Areas[0].Questions[0].ScaleMin)
	assert.Equal(t, 5, *fc.Areas[0].Questions[0].ScaleMax)
	assert.Nil(t, fc.Areas[1].Questions[0].ScaleMin)
}

func TestApplyDefaults_BlankScopeIsUnscoped(t *testing.T) {
	fc := validDefinition()
	fc.DepartmentID = strPtr("")
	fc.SemesterID = strPtr(" 2026-1 ")
	ApplyDefaults(&fc)
	assert.Nil(t, fc.DepartmentID)
	require.NotNil(t, fc.SemesterID)
	assert.Equal(t, "2026-1", *fc.SemesterID)
}

func TestApplyDefaults_KeepsExplicitOptionalArea(t *testing.T) {
	fc := validDefinition()
	optional := false
	fc.Areas[1].IsMandatory = &optional
	ApplyDefaults(&fc)
	assert.False(t, *fc.Areas[1].IsMandatory)
}

func TestValidateDefinition_Valid(t *testing.T) {
	fc := validDefinition()
	ApplyDefaults(&fc)
	assert.NoError(t, ValidateDefinition(fc))

	flat := types.FormCreate{
		FormType:  types.FormTypeGraduateExitSurvey,
		Title:     "Exit",
		Questions: []types.QuestionCreate{{QuestionText: "Placed?", QuestionType: types.QuestionTypeYesNo, SortOrder: 1}},
	}
	ApplyDefaults(&flat)
	assert.NoError(t, ValidateDefinition(flat))
}

func TestValidateDefinition_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fc *types.FormCreate)
		msg    string
	}{
		{"unknown type", func(fc *types.FormCreate) { fc.FormType = "course_feedback" }, "unknown form type"},
		{"blank title", func(fc *types.FormCreate) { fc.Title = "   " }, "title is required"},
		{"bad status", func(fc *types.FormCreate) { fc.Status = "Paused" }, "status must be"},
		{"both shapes", func(fc *types.FormCreate) {
			fc.Questions = []types.QuestionCreate{{QuestionText: "x", QuestionType: types.QuestionTypeText}}
		}, "not both"},
		{"duplicate area order", func(fc *types.FormCreate) { fc.Areas[1].SortOrder = 1 }, "share sort_order 1"},
		{"duplicate question order", func(fc *types.FormCreate) { fc.Areas[0].Questions[1].SortOrder = 1 }, "used twice"},
		{"inverted scale", func(fc *types.FormCreate) {
			fc.Areas[0].Questions[0].ScaleMin = intPtr(5)
			fc.Areas[0].Questions[0].ScaleMax = intPtr(1)
		}, "scale_min < scale_max"},
		{"scale beyond five", func(fc *types.FormCreate) { fc.Areas[0].Questions[0].ScaleMax = intPtr(10) }, "within 1-5"},
		{"missing scale", func(fc *types.FormCreate) { fc.Areas[0].Questions[0].ScaleMax = nil }, "needs scale_min and scale_max"},
		{"bad question type", func(fc *types.FormCreate) { fc.Areas[0].Questions[0].QuestionType = "essay" }, ""},
		{"no questions", func(fc *types.FormCreate) {
			fc.Areas[0].Questions = nil
			fc.Areas[1].Questions = nil
		}, "at least one question"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := validDefinition()
			ApplyDefaults(&fc)
			tt.mutate(&fc)

			err := ValidateDefinition(fc)
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, ReasonDefinition, verr.Reason)
			if tt.msg != "" {
				assert.Contains(t, verr.Message, tt.msg)
			}
		})
	}
}

func TestBuildLayout(t *testing.T) {
	fc := validDefinition()
	optional := false
	fc.Areas[1].IsMandatory = &optional
	ApplyDefaults(&fc)

	areas, flat := BuildLayout(fc.Areas, fc.Questions)

	require.Len(t, areas, 2)
	assert.Empty(t, flat)
	assert.True(t, areas[0].IsMandatory)
	assert.False(t, areas[1].IsMandatory)
	require.Len(t, areas[0].Questions, 2)
	assert.Equal(t, 1, *areas[0].Questions[0].ScaleMin)
	assert.Equal(t, 5, *areas[0].Questions[0].ScaleMax)
	assert.Nil(t, areas[1].Questions[0].ScaleMin)
}
