package feedback

import (
	"testing"

	"github.com/campusdesk/swo-feedback/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_GroupedAreasKeepSortOrder(t *testing.T) {
	detail := types.FormDetail{
		FeedbackForm: types.FeedbackForm{ID: "f1", FormType: types.FormTypeFacultyFeedback, Title: "Faculty"},
		Areas: []types.FeedbackArea{
			{ID: "a2", AreaName: "Delivery", SortOrder: 2, IsMandatory: false,
				Questions: []types.FeedbackQuestion{textQ("q4", 2), ratingQ("q3", 1)}},
			{ID: "a1", AreaName: "Knowledge", SortOrder: 1, IsMandatory: true,
				Questions: []types.FeedbackQuestion{ratingQ("q2", 2), ratingQ("q1", 1)}},
		},
	}

	s := Normalize(detail)

	require.Len(t, s.Areas, 2)
	assert.Equal(t, "Knowledge", s.Areas[0].Name)
	assert.True(t, s.Areas[0].Mandatory)
	assert.Equal(t, "Delivery", s.Areas[1].Name)
	assert.False(t, s.Areas[1].Mandatory)
	assert.Equal(t, "q1", s.Areas[0].Questions[0].ID)
	assert.Equal(t, "q2", s.Areas[0].Questions[1].ID)
	assert.Equal(t, "q3", s.Areas[1].Questions[0].ID)
	assert.Equal(t, 4, s.QuestionCount())
	assert.Equal(t, "f1", s.FormID)

	// input untouched
	assert.Equal(t, "a2", detail.Areas[0].ID)
}

func TestNormalize_FlatFormGetsSyntheticArea(t *testing.T) {
	tests := []struct {
		name   string
		detail types.FormDetail
		want   []string
	}{
		{
			name: "questions key",
			detail: types.FormDetail{
				FeedbackForm: types.FeedbackForm{ID: "f", Title: "Exit Survey", FormType: types.FormTypeGraduateExitSurvey},
				Questions:    []types.FeedbackQuestion{textQ("b", 2), ratingQ("a", 1)},
			},
			want: []string{"a", "b"},
		},
		{
			name: "legacy allQuestions key wins",
			detail: types.FormDetail{
				FeedbackForm: types.FeedbackForm{ID: "f", Title: "Exit Survey", FormType: types.FormTypeGraduateExitSurvey},
				Questions:    []types.FeedbackQuestion{textQ("ignored", 1)},
				AllQuestions: []types.FeedbackQuestion{ratingQ("x", 1)},
			},
			want: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Normalize(tt.detail)
			require.Len(t, s.Areas, 1)
			assert.Equal(t, "Exit Survey", s.Areas[0].Name)
			assert.True(t, s.Areas[0].Mandatory)
			var ids []string
			for _, q := range s.Areas[0].Questions {
				ids = append(ids, q.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestNormalize_EmptyDetail(t *testing.T) {
	s := Normalize(types.FormDetail{FeedbackForm: types.FeedbackForm{Title: "Empty"}})
	require.Len(t, s.Areas, 1)
	assert.True(t, s.IsEmpty())
}

func TestSchema_Question(t *testing.T) {
	s := institutionSchema()
	q, ok := s.Question("q3")
	require.True(t, ok)
	assert.Equal(t, types.QuestionTypeText, q.QuestionType)

	_, ok = s.Question("missing")
	assert.False(t, ok)
}

func TestScaleBounds(t *testing.T) {
	lo, hi := ScaleBounds(types.FeedbackQuestion{})
	assert.Equal(t, 1, lo)
	assert.Equal(t, 5, hi)

	lo, hi = ScaleBounds(types.FeedbackQuestion{ScaleMin: intPtr(2), ScaleMax: intPtr(4)})
	assert.Equal(t, 2, lo)
	assert.Equal(t, 4, hi)
}
