// Package report aggregates submitted answers into per-question summaries and
// renders them for export.
package report

import (
	"sort"
	"time"

	"github.com/campusdesk/swo-feedback/internal/feedback"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/shopspring/decimal"
)

// Build aggregates answers to the form described by detail. Answers to
// questions no longer in the schema are ignored.
func Build(detail types.FormDetail, answers []types.SubmittedAnswer, facultyID *string, now time.Time) types.FormReport {
	schema := feedback.Normalize(detail)

	byQuestion := make(map[string][]types.SubmittedAnswer)
	responses := make(map[string]struct{})
	for _, a := range answers {
		responses[a.ResponseID] = struct{}{}
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}

	rep := types.FormReport{
		FormID:        detail.ID,
		FormType:      detail.FormType,
		Title:         detail.Title,
		FacultyID:     facultyID,
		ResponseCount: len(responses),
		Areas:         make([]types.AreaReport, 0, len(schema.Areas)),
		GeneratedAt:   now.UTC(),
	}

	var overall ratingSum
	for _, area := range schema.Areas {
		ar := types.AreaReport{AreaName: area.Name, Questions: make([]types.QuestionReport, 0, len(area.Questions))}
		var areaSum ratingSum
		for _, q := range area.Questions {
			qr, sum := questionReport(q, byQuestion[q.ID])
			ar.Questions = append(ar.Questions, qr)
			areaSum.merge(sum)
		}
		ar.Average = areaSum.average()
		overall.merge(areaSum)
		rep.Areas = append(rep.Areas, ar)
	}
	rep.OverallAverage = overall.average()
	return rep
}

type ratingSum struct {
	total int64
	count int64
}

func (r *ratingSum) add(v int) {
	r.total += int64(v)
	r.count++
}

func (r *ratingSum) merge(o ratingSum) {
	r.total += o.total
	r.count += o.count
}

// average is rounded to two places; zero when nothing was rated.
func (r ratingSum) average() decimal.Decimal {
	if r.count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(r.total).Div(decimal.NewFromInt(r.count)).Round(2)
}

func questionReport(q types.FeedbackQuestion, answers []types.SubmittedAnswer) (types.QuestionReport, ratingSum) {
	qr := types.QuestionReport{
		QuestionID:   q.ID,
		QuestionText: q.QuestionText,
		QuestionType: q.QuestionType,
	}
	var sum ratingSum

	switch q.QuestionType {
	case types.QuestionTypeRating:
		lo, hi := feedback.ScaleBounds(q)
		qr.Distribution = make(map[int]int, hi-lo+1)
		for v := lo; v <= hi; v++ {
			qr.Distribution[v] = 0
		}
		for _, a := range answers {
			if a.AnswerRating == nil {
				continue
			}
			qr.Distribution[*a.AnswerRating]++
			sum.add(*a.AnswerRating)
		}
		qr.AnswerCount = int(sum.count)
		qr.Average = sum.average()

	case types.QuestionTypeYesNo:
		for _, a := range answers {
			if a.AnswerText == nil {
				continue
			}
			switch v, _ := feedback.NormalizeYesNo(*a.AnswerText); v {
			case "Yes":
				qr.YesCount++
			case "No":
				qr.NoCount++
			default:
				continue
			}
			qr.AnswerCount++
		}

	default:
		sorted := append([]types.SubmittedAnswer(nil), answers...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].SubmittedTime.Before(sorted[j].SubmittedTime)
		})
		for _, a := range sorted {
			if a.AnswerText == nil || *a.AnswerText == "" {
				continue
			}
			qr.TextAnswers = append(qr.TextAnswers, *a.AnswerText)
		}
		qr.AnswerCount = len(qr.TextAnswers)
	}
	return qr, sum
}
