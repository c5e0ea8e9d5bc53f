package feedback

import "github.com/campusdesk/swo-feedback/types"

// CollectorFromAnswers loads wire answers into a Collector, rejecting ids that are
// not part of the schema, repeated ids, and values of the wrong kind for the
// question. Answers that carry neither field are treated as unanswered.
func CollectorFromAnswers(schema Schema, answers []types.AnswerInput) (*Collector, error) {
	c := NewCollector()
	seen := make(map[string]struct{}, len(answers))

	for _, a := range answers {
		q, ok := schema.Question(a.QuestionID)
		if !ok {
			return nil, newValidationError(ReasonUnknownQuestion, a.QuestionID,
				"Question %s does not belong to this form", a.QuestionID)
		}
		if _, dup := seen[a.QuestionID]; dup {
			return nil, newValidationError(ReasonDuplicate, a.QuestionID,
				"Question %q was answered more than once", q.QuestionText)
		}
		seen[a.QuestionID] = struct{}{}

		if a.AnswerRating != nil && a.AnswerText != nil {
			return nil, kindMismatch(q)
		}

		if q.QuestionType == types.QuestionTypeRating {
			if a.AnswerText != nil {
				return nil, kindMismatch(q)
			}
			if a.AnswerRating != nil {
				c.SetRating(q.ID, *a.AnswerRating)
			}
			continue
		}

		if a.AnswerRating != nil {
			return nil, kindMismatch(q)
		}
		if a.AnswerText != nil {
			c.SetText(q.ID, *a.AnswerText)
		}
	}
	return c, nil
}

func kindMismatch(q types.FeedbackQuestion) *ValidationError {
	want := "answer_text"
	if q.QuestionType == types.QuestionTypeRating {
		want = "answer_rating"
	}
	return newValidationError(ReasonKindMismatch, q.ID,
		"Question %q expects only %s", q.QuestionText, want)
}

// AnswersFromDetails converts stored answers back into wire form, e.g. to
// resume a draft.
func AnswersFromDetails(details []types.AnswerDetail) []types.AnswerInput {
	out := make([]types.AnswerInput, 0, len(details))
	for _, d := range details {
		out = append(out, types.AnswerInput{
			QuestionID:   d.QuestionID,
			AnswerRating: d.AnswerRating,
			AnswerText:   d.AnswerText,
		})
	}
	return out
}
