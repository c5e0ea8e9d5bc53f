package feedback

import (
	"strings"

	"github.com/campusdesk/swo-feedback/types"
)

// BuildSubmission walks the schema area by area and turns the collected answers
// into the wire payload.
//
// Faculty feedback needs a target before anything else is checked. A question
// left unanswered in a mandatory area aborts with an error naming it; gaps in
// optional areas are left out of the payload. Rating questions contribute only
// answer_rating and text or yes_no questions only a non-blank answer_text.
func BuildSubmission(schema Schema, c *Collector, facultyID *string) (types.SubmitRequest, error) {
	req := types.SubmitRequest{Answers: []types.AnswerInput{}}

	if schema.FormType.RequiresTarget() {
		if facultyID == nil || strings.TrimSpace(*facultyID) == "" {
			return types.SubmitRequest{}, &ValidationError{Reason: ReasonMissingFaculty, Message: MsgSelectFaculty}
		}
		id := strings.TrimSpace(*facultyID)
		req.FacultyID = &id
	}

	for _, area := range schema.Areas {
		for _, q := range area.Questions {
			answer, present, err := readAnswer(q, c)
			if err != nil {
				return types.SubmitRequest{}, err
			}
			if !present {
				if area.Mandatory {
					return types.SubmitRequest{}, missingAnswer(area, q)
				}
				continue
			}
			req.Answers = append(req.Answers, answer)
		}
	}
	return req, nil
}

// BuildDraft collects whatever has been answered so far without enforcing
// mandatory coverage. Values that are present must still be well formed.
func BuildDraft(schema Schema, c *Collector) ([]types.AnswerInput, error) {
	out := []types.AnswerInput{}
	for _, area := range schema.Areas {
		for _, q := range area.Questions {
			answer, present, err := readAnswer(q, c)
			if err != nil {
				return nil, err
			}
			if present {
				out = append(out, answer)
			}
		}
	}
	return out, nil
}

// readAnswer extracts the answer for q according to its question_type.
func readAnswer(q types.FeedbackQuestion, c *Collector) (types.AnswerInput, bool, error) {
	switch q.QuestionType {
	case types.QuestionTypeRating:
		rating, ok := c.Rating(q.ID)
		if !ok {
			return types.AnswerInput{}, false, nil
		}
		lo, hi := ScaleBounds(q)
		if rating < lo || rating > hi {
			return types.AnswerInput{}, false, newValidationError(ReasonOutOfRange, q.ID,
				"Rating for %q must be between %d and %d", q.QuestionText, lo, hi)
		}
		v := rating
		return types.AnswerInput{QuestionID: q.ID, AnswerRating: &v}, true, nil

	case types.QuestionTypeYesNo:
		text, ok := c.Text(q.ID)
		text = strings.TrimSpace(text)
		if !ok || text == "" {
			return types.AnswerInput{}, false, nil
		}
		choice, valid := NormalizeYesNo(text)
		if !valid {
			return types.AnswerInput{}, false, newValidationError(ReasonInvalidChoice, q.ID,
				"Please answer Yes or No for %q", q.QuestionText)
		}
		return types.AnswerInput{QuestionID: q.ID, AnswerText: &choice}, true, nil

	default:
		text, ok := c.Text(q.ID)
		text = strings.TrimSpace(text)
		if !ok || text == "" {
			return types.AnswerInput{}, false, nil
		}
		return types.AnswerInput{QuestionID: q.ID, AnswerText: &text}, true, nil
	}
}

func missingAnswer(area Area, q types.FeedbackQuestion) *ValidationError {
	if q.QuestionType == types.QuestionTypeRating {
		return newValidationError(ReasonMissingAnswer, q.ID,
			"Please provide a rating for %q in %s", q.QuestionText, area.Name)
	}
	return newValidationError(ReasonMissingAnswer, q.ID,
		"Please answer %q in %s", q.QuestionText, area.Name)
}

// NormalizeYesNo maps a case-insensitive yes/no answer to "Yes" or "No".
func NormalizeYesNo(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return "Yes", true
	case "no":
		return "No", true
	}
	return "", false
}
