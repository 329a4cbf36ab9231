package store

import (
	"context"
	"fmt"
	"time"

	"github.com/quizroom/quizroom/internal/model"
)

// ExportQuiz builds an export-ready snapshot of a quiz's attempts with
// their recorded answers.
func (s *Store) ExportQuiz(ctx context.Context, quizID int64) (model.QuizExport, error) {
	q, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return model.QuizExport{}, err
	}
	questions, err := s.ListQuestions(ctx, quizID)
	if err != nil {
		return model.QuizExport{}, fmt.Errorf("list questions: %w", err)
	}
	attempts, err := s.ListAttempts(ctx, quizID)
	if err != nil {
		return model.QuizExport{}, fmt.Errorf("list attempts: %w", err)
	}

	export := model.QuizExport{
		QuizID:         q.ID,
		Title:          q.Title,
		TotalQuestions: len(questions),
		ExportedAt:     time.Now().UTC(),
	}
	for _, a := range attempts {
		records, err := s.ListAnswers(ctx, a.ID)
		if err != nil {
			return model.QuizExport{}, fmt.Errorf("list answers for attempt %d: %w", a.ID, err)
		}
		var answers []model.AnswerExport
		for _, r := range records {
			answers = append(answers, model.AnswerExport{
				QuestionID:       r.QuestionID,
				SelectedOptionID: r.SelectedOptionID,
				IsCorrect:        r.IsCorrect,
				AnsweredAt:       r.AnsweredAt,
			})
		}
		export.Attempts = append(export.Attempts, model.AttemptResult{
			AttemptID:      a.ID,
			UserID:         a.UserID,
			Status:         a.Status,
			Score:          a.Score,
			TotalQuestions: a.TotalQuestions,
			StartedAt:      a.StartedAt,
			SubmittedAt:    a.SubmittedAt,
			Answers:        answers,
		})
	}
	return export, nil
}
