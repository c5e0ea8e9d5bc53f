package feedback

import "github.com/campusdesk/swo-feedback/types"

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func ratingQ(id string, order int) types.FeedbackQuestion {
	return types.FeedbackQuestion{
		ID:           id,
		QuestionText: "Rate " + id,
		QuestionType: types.QuestionTypeRating,
		ScaleMin:     intPtr(1),
		ScaleMax:     intPtr(5),
		SortOrder:    order,
	}
}

func textQ(id string, order int) types.FeedbackQuestion {
	return types.FeedbackQuestion{
		ID:           id,
		QuestionText: "Describe " + id,
		QuestionType: types.QuestionTypeText,
		SortOrder:    order,
	}
}

func yesNoQ(id string, order int) types.FeedbackQuestion {
	return types.FeedbackQuestion{
		ID:           id,
		QuestionText: "Would you recommend " + id,
		QuestionType: types.QuestionTypeYesNo,
		SortOrder:    order,
	}
}

// institutionSchema has a mandatory rating area and an optional comments area.
func institutionSchema() Schema {
	return Schema{
		FormID:   "form-1",
		FormType: types.FormTypeInstitutionFeedback,
		Title:    "Institution Feedback",
		Areas: []Area{
			{Name: "Infrastructure", Mandatory: true, Questions: []types.FeedbackQuestion{ratingQ("q1", 1), ratingQ("q2", 2)}},
			{Name: "Comments", Mandatory: false, Questions: []types.FeedbackQuestion{textQ("q3", 1), textQ("q4", 2)}},
		},
	}
}
