package quiz

import (
	"fmt"
	"math"

	"github.com/quizroom/quizroom/internal/model"
)

// Overall is the aggregate result of scoring one attempt.
type Overall struct {
	CorrectCount   int
	TotalQuestions int
	ScorePercent   int
}

// ComputeOverall aggregates the recorded answers of one attempt against the
// full question set of its quiz. The denominator is every question in the
// quiz — unanswered questions count as incorrect, never excluded. The
// percentage uses math.Round, i.e. half away from zero: 1 of 3 correct is
// round(33.33) = 33, 1 of 200 is round(0.5) = 1.
func ComputeOverall(records []model.AnswerRecord, questions []model.Question) (Overall, error) {
	total := len(questions)
	if total == 0 {
		return Overall{}, fmt.Errorf("quiz has no questions: %w", ErrValidation)
	}

	known := make(map[int64]struct{}, total)
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	correct := 0
	for _, r := range records {
		if _, ok := known[r.QuestionID]; !ok {
			continue
		}
		if r.IsCorrect {
			correct++
		}
	}

	percent := int(math.Round(float64(correct) / float64(total) * 100))
	return Overall{CorrectCount: correct, TotalQuestions: total, ScorePercent: percent}, nil
}

// ComputeBySubject partitions the quiz's questions by subject and counts
// correct answers per partition. Every subject with at least one question
// appears in the output, in the subjects' given order, even when none of
// its questions were answered.
func ComputeBySubject(records []model.AnswerRecord, questions []model.Question, subjects []model.Subject) []model.SubjectScore {
	totals := make(map[int64]int, len(subjects))
	questionSubject := make(map[int64]int64, len(questions))
	for _, q := range questions {
		totals[q.SubjectID]++
		questionSubject[q.ID] = q.SubjectID
	}

	correct := make(map[int64]int, len(subjects))
	for _, r := range records {
		if !r.IsCorrect {
			continue
		}
		if subjID, ok := questionSubject[r.QuestionID]; ok {
			correct[subjID]++
		}
	}

	var out []model.SubjectScore
	for _, s := range subjects {
		if totals[s.ID] == 0 {
			continue
		}
		out = append(out, model.SubjectScore{
			SubjectID:      s.ID,
			Name:           s.Name,
			Color:          s.Color,
			CorrectCount:   correct[s.ID],
			TotalQuestions: totals[s.ID],
		})
	}
	return out
}
