package quiz

import (
	"context"
	"fmt"

	"github.com/quizroom/quizroom/internal/auth"
	"github.com/quizroom/quizroom/internal/model"
)

// AuthorizeReviewer reports whether the supplied secret matches the quiz's
// reviewer ("author") password. A mismatch is a normal outcome, not an
// error. This check is entirely separate from the entry-gate password.
func (s *Service) AuthorizeReviewer(ctx context.Context, quizID int64, secret string) (bool, error) {
	q, err := s.bank.GetQuiz(ctx, quizID)
	if err != nil {
		return false, err
	}
	return auth.Verify(q.AuthorPassword, secret), nil
}

// RevealAnswers returns, for every question of the quiz in display order,
// the test-taker's recorded selection joined with the question's single
// correct option. The boolean reports authorization; when false the detail
// slice is nil. Calling this before the attempt is completed returns the
// partial records that exist so far.
func (s *Service) RevealAnswers(ctx context.Context, attemptID, quizID int64, secret string) ([]model.AnswerDetail, bool, error) {
	ok, err := s.AuthorizeReviewer(ctx, quizID, secret)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	a, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, false, err
	}
	if a.QuizID != quizID {
		return nil, false, fmt.Errorf("attempt %d does not belong to quiz %d: %w", attemptID, quizID, ErrValidation)
	}

	questions, err := s.bank.ListQuestions(ctx, a.QuizID)
	if err != nil {
		return nil, false, err
	}
	records, err := s.attempts.ListAnswers(ctx, attemptID)
	if err != nil {
		return nil, false, err
	}
	byQuestion := make(map[int64]model.AnswerRecord, len(records))
	for _, r := range records {
		byQuestion[r.QuestionID] = r
	}

	details := make([]model.AnswerDetail, 0, len(questions))
	for _, q := range questions {
		correct, err := correctOption(q)
		if err != nil {
			return nil, false, err
		}
		d := model.AnswerDetail{
			QuestionID:      q.ID,
			QuestionText:    q.Text,
			OrderNum:        q.OrderNum,
			CorrectOptionID: correct.ID,
			CorrectOption:   correct.Text,
		}
		if r, answered := byQuestion[q.ID]; answered {
			d.Answered = true
			d.IsCorrect = r.IsCorrect
			for _, opt := range q.Options {
				if opt.ID == r.SelectedOptionID {
					d.SelectedOption = opt.Text
					break
				}
			}
		}
		details = append(details, d)
	}
	return details, true, nil
}

// correctOption finds the question's single correct option. Zero or more
// than one correct option means the bank data is corrupt; that is surfaced
// instead of silently picking one.
func correctOption(q model.Question) (model.Option, error) {
	var found *model.Option
	for i := range q.Options {
		if !q.Options[i].IsCorrect {
			continue
		}
		if found != nil {
			return model.Option{}, fmt.Errorf("question %d has multiple correct options: %w", q.ID, ErrDataIntegrity)
		}
		found = &q.Options[i]
	}
	if found == nil {
		return model.Option{}, fmt.Errorf("question %d has no correct option: %w", q.ID, ErrDataIntegrity)
	}
	return *found, nil
}
