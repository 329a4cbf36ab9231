package quiz

import (
	"context"
	"fmt"

	"github.com/quizroom/quizroom/internal/model"
)

// Service is the quiz attempt core: lifecycle, answer recording, scoring,
// and reviewer access. It holds no attempt state of its own — the stores
// are the single source of truth and every call is request-scoped.
type Service struct {
	bank     QuestionBank
	attempts AttemptStore
}

// NewService creates a Service over the given question bank and attempt store.
func NewService(bank QuestionBank, attempts AttemptStore) *Service {
	return &Service{bank: bank, attempts: attempts}
}

// Start creates a new in-progress attempt for the given quiz and user.
// The entry-gate password check happens before this call; Start trusts it.
// Nothing here limits the number of attempts per user.
func (s *Service) Start(ctx context.Context, quizID, userID int64) (model.Attempt, error) {
	q, err := s.bank.GetQuiz(ctx, quizID)
	if err != nil {
		return model.Attempt{}, err
	}
	if !q.Active {
		return model.Attempt{}, fmt.Errorf("quiz %d is inactive: %w", quizID, ErrNotFound)
	}
	return s.attempts.CreateAttempt(ctx, quizID, userID)
}

// Submit finalizes an attempt: it scores the recorded answers, freezes the
// attempt as completed, and returns the result. Submit is deliberately not
// idempotent — a second call fails with ErrInvalidState and leaves the
// persisted score from the first call untouched.
func (s *Service) Submit(ctx context.Context, attemptID int64) (model.SubmitResult, error) {
	a, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return model.SubmitResult{}, err
	}
	if a.Status != model.StatusInProgress {
		return model.SubmitResult{}, fmt.Errorf("attempt %d already %s: %w", attemptID, a.Status, ErrInvalidState)
	}

	questions, err := s.bank.ListQuestions(ctx, a.QuizID)
	if err != nil {
		return model.SubmitResult{}, err
	}
	subjects, err := s.bank.ListSubjects(ctx, a.QuizID)
	if err != nil {
		return model.SubmitResult{}, err
	}

	var res model.SubmitResult
	_, err = s.attempts.Finalize(ctx, attemptID, func(records []model.AnswerRecord) (int, int, int, error) {
		overall, err := ComputeOverall(records, questions)
		if err != nil {
			return 0, 0, 0, err
		}
		res = model.SubmitResult{
			Score:          overall.ScorePercent,
			CorrectAnswers: overall.CorrectCount,
			TotalQuestions: overall.TotalQuestions,
			BySubject:      ComputeBySubject(records, questions, subjects),
		}
		return overall.ScorePercent, overall.CorrectCount, overall.TotalQuestions, nil
	})
	if err != nil {
		return model.SubmitResult{}, err
	}
	return res, nil
}
