package quiz

import (
	"context"
	"fmt"

	"github.com/quizroom/quizroom/internal/model"
)

// Record stores the test-taker's latest selection for one question of an
// in-progress attempt. Repeated calls for the same (attempt, question) pair
// overwrite the previous selection; exactly one record remains, reflecting
// the last call. Correctness is computed here, against the question bank,
// at write time. No score is touched — scoring happens only at submit.
func (s *Service) Record(ctx context.Context, attemptID, questionID, selectedOptionID int64) error {
	a, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return err
	}
	if a.Status != model.StatusInProgress {
		return fmt.Errorf("attempt %d already %s: %w", attemptID, a.Status, ErrInvalidState)
	}

	q, err := s.bank.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if q.QuizID != a.QuizID {
		return fmt.Errorf("question %d is not part of quiz %d: %w", questionID, a.QuizID, ErrNotFound)
	}

	opt, err := s.bank.GetOption(ctx, selectedOptionID)
	if err != nil {
		return fmt.Errorf("option %d: %w", selectedOptionID, ErrValidation)
	}
	if opt.QuestionID != questionID {
		return fmt.Errorf("option %d does not belong to question %d: %w", selectedOptionID, questionID, ErrValidation)
	}

	// The store re-checks the attempt status inside the upsert transaction,
	// so a submit racing past the check above still wins.
	return s.attempts.UpsertAnswer(ctx, attemptID, questionID, selectedOptionID, opt.IsCorrect)
}
