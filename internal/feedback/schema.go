package feedback

import (
	"sort"

	"github.com/campusdesk/swo-feedback/types"
)

// Area is one normalized group of questions, already in rendering order.
type Area struct {
	ID          string
	Name        string
	Description string
	Mandatory   bool
	Questions   []types.FeedbackQuestion
}

// Schema is a form reduced to the single shape the rest of the package works on:
// an ordered list of areas, each with ordered questions.
type Schema struct {
	FormID   string
	FormType types.FormType
	Title    string
	Areas    []Area
}

// Normalize folds both payload shapes of a form detail into a Schema. A detail
// without areas yields one synthetic mandatory area named after the form title,
// holding allQuestions when present and questions otherwise.
func Normalize(detail types.FormDetail) Schema {
	s := Schema{
		FormID:   detail.ID,
		FormType: detail.FormType,
		Title:    detail.Title,
	}

	if len(detail.Areas) == 0 {
		flat := detail.AllQuestions
		if len(flat) == 0 {
			flat = detail.Questions
		}
		s.Areas = []Area{{
			Name:      detail.Title,
			Mandatory: true,
			Questions: sortedQuestions(flat),
		}}
		return s
	}

	areas := make([]types.FeedbackArea, len(detail.Areas))
	copy(areas, detail.Areas)
	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].SortOrder != areas[j].SortOrder {
			return areas[i].SortOrder < areas[j].SortOrder
		}
		return areas[i].ID < areas[j].ID
	})

	s.Areas = make([]Area, 0, len(areas))
	for _, a := range areas {
		s.Areas = append(s.Areas, Area{
			ID:          a.ID,
			Name:        a.AreaName,
			Description: a.AreaDescription,
			Mandatory:   a.IsMandatory,
			Questions:   sortedQuestions(a.Questions),
		})
	}
	return s
}

func sortedQuestions(in []types.FeedbackQuestion) []types.FeedbackQuestion {
	out := make([]types.FeedbackQuestion, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Question looks a question up by id.
func (s Schema) Question(id string) (types.FeedbackQuestion, bool) {
	for _, a := range s.Areas {
		for _, q := range a.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return types.FeedbackQuestion{}, false
}

// QuestionCount returns the number of questions across all areas.
func (s Schema) QuestionCount() int {
	n := 0
	for _, a := range s.Areas {
		n += len(a.Questions)
	}
	return n
}

// IsEmpty reports whether the schema has no questions at all.
func (s Schema) IsEmpty() bool {
	return s.QuestionCount() == 0
}

// ScaleBounds returns the rating bounds of q, using the conventional 1-5 range
// for any bound that is not set.
func ScaleBounds(q types.FeedbackQuestion) (int, int) {
	lo, hi := types.DefaultScaleMin, types.DefaultScaleMax
	if q.ScaleMin != nil {
		lo = *q.ScaleMin
	}
	if q.ScaleMax != nil {
		hi = *q.ScaleMax
	}
	return lo, hi
}
