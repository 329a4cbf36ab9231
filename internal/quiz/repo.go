package quiz

import (
	"context"

	"github.com/quizroom/quizroom/internal/model"
)

// QuestionBank is the read-only view of published quiz content. Content is
// immutable once published; correctness is always derived from here, never
// from anything a client sends.
type QuestionBank interface {
	GetQuiz(ctx context.Context, quizID int64) (model.Quiz, error)
	ListSubjects(ctx context.Context, quizID int64) ([]model.Subject, error)
	ListQuestions(ctx context.Context, quizID int64) ([]model.Question, error)
	GetQuestion(ctx context.Context, questionID int64) (model.Question, error)
	GetOption(ctx context.Context, optionID int64) (model.Option, error)
}

// FinalizeFunc computes the immutable score snapshot for an attempt. The
// store invokes it inside the finalize transaction with the answer records
// as of that transaction, so a concurrently recorded answer is either fully
// scored or fully rejected, never half-observed.
type FinalizeFunc func(records []model.AnswerRecord) (score, correct, total int, err error)

// AttemptStore is the durable home of attempts and answer records. The
// upsert keyed by (attempt, question) must be atomic; last writer wins by
// the store's own write ordering.
type AttemptStore interface {
	CreateAttempt(ctx context.Context, quizID, userID int64) (model.Attempt, error)
	GetAttempt(ctx context.Context, attemptID int64) (model.Attempt, error)
	UpsertAnswer(ctx context.Context, attemptID, questionID, selectedOptionID int64, isCorrect bool) error
	ListAnswers(ctx context.Context, attemptID int64) ([]model.AnswerRecord, error)
	Finalize(ctx context.Context, attemptID int64, fn FinalizeFunc) (model.Attempt, error)
}
