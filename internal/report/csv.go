package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/campusdesk/swo-feedback/internal/feedback"
	"github.com/campusdesk/swo-feedback/types"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{
	"response_id",
	"respondent_user_id",
	"respondent_type",
	"faculty_id",
	"submitted_time",
	"area",
	"question",
	"question_type",
	"answer_rating",
	"answer_text",
}

// WriteCSV writes one row per answer, grouped by response in submission order
// and by question in form order.
func WriteCSV(w io.Writer, detail types.FormDetail, answers []types.SubmittedAnswer) error {
	schema := feedback.Normalize(detail)

	type position struct {
		area     string
		question types.FeedbackQuestion
		index    int
	}
	positions := make(map[string]position)
	i := 0
	for _, area := range schema.Areas {
		for _, q := range area.Questions {
			positions[q.ID] = position{area: area.Name, question: q, index: i}
			i++
		}
	}

	rows := make([]types.SubmittedAnswer, 0, len(answers))
	for _, a := range answers {
		if _, ok := positions[a.QuestionID]; ok {
			rows = append(rows, a)
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		ra, rb := rows[a], rows[b]
		if !ra.SubmittedTime.Equal(rb.SubmittedTime) {
			return ra.SubmittedTime.Before(rb.SubmittedTime)
		}
		if ra.ResponseID != rb.ResponseID {
			return ra.ResponseID < rb.ResponseID
		}
		return positions[ra.QuestionID].index < positions[rb.QuestionID].index
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, a := range rows {
		pos := positions[a.QuestionID]
		record := []string{
			a.ResponseID,
			a.RespondentUserID,
			string(a.RespondentType),
			optional(a.FacultyID),
			a.SubmittedTime.UTC().Format(time.RFC3339),
			pos.area,
			pos.question.QuestionText,
			string(pos.question.QuestionType),
			"",
			optional(a.AnswerText),
		}
		if a.AnswerRating != nil {
			record[8] = strconv.Itoa(*a.AnswerRating)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName returns the download name of a CSV export.
func FileName(detail types.FormDetail, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.csv", detail.FormType, detail.ID, now.UTC().Format("20060102T150405Z"))
}

func optional(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
