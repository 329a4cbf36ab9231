package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quizroom/quizroom/internal/model"
	"github.com/quizroom/quizroom/internal/quiz"
)

// CreateAttempt inserts a new in-progress attempt.
func (s *Store) CreateAttempt(ctx context.Context, quizID, userID int64) (model.Attempt, error) {
	a := model.Attempt{
		UserID:    userID,
		QuizID:    quizID,
		Status:    model.StatusInProgress,
		StartedAt: time.Now().UTC(),
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO quiz_attempts (user_id, quiz_id, status, started_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		a.UserID, a.QuizID, a.Status, a.StartedAt,
	).Scan(&a.ID)
	if err != nil {
		return model.Attempt{}, fmt.Errorf("create attempt: %w", err)
	}
	return a, nil
}

// GetAttempt returns an attempt by ID.
func (s *Store) GetAttempt(ctx context.Context, attemptID int64) (model.Attempt, error) {
	a, err := scanAttempt(s.db.QueryRowContext(ctx, attemptQuery+` WHERE id = $1`, attemptID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Attempt{}, fmt.Errorf("attempt %d: %w", attemptID, quiz.ErrNotFound)
	}
	return a, err
}

// UpsertAnswer records the latest selection for one question of an attempt.
// The status check and the upsert share a transaction, so an answer can
// never land on an attempt that has already been finalized.
func (s *Store) UpsertAnswer(ctx context.Context, attemptID, questionID, selectedOptionID int64, isCorrect bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	status, err := s.attemptStatus(ctx, tx, attemptID)
	if err != nil {
		return err
	}
	if status != model.StatusInProgress {
		return fmt.Errorf("attempt %d already %s: %w", attemptID, status, quiz.ErrInvalidState)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_answers (attempt_id, question_id, selected_option_id, is_correct, answered_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (attempt_id, question_id) DO UPDATE SET
		   selected_option_id = EXCLUDED.selected_option_id,
		   is_correct = EXCLUDED.is_correct,
		   answered_at = EXCLUDED.answered_at`,
		attemptID, questionID, selectedOptionID, isCorrect, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}
	return tx.Commit()
}

// ListAnswers returns all recorded answers of an attempt.
func (s *Store) ListAnswers(ctx context.Context, attemptID int64) ([]model.AnswerRecord, error) {
	return listAnswers(ctx, s.db, attemptID)
}

// Finalize runs the single in_progress → completed transition. The scoring
// callback sees the answer records as of the finalize transaction; the
// status update is guarded so a second finalize, or one racing another,
// fails with ErrInvalidState instead of overwriting the frozen score.
func (s *Store) Finalize(ctx context.Context, attemptID int64, fn quiz.FinalizeFunc) (model.Attempt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Attempt{}, err
	}
	defer tx.Rollback()

	status, err := s.attemptStatus(ctx, tx, attemptID)
	if err != nil {
		return model.Attempt{}, err
	}
	if status != model.StatusInProgress {
		return model.Attempt{}, fmt.Errorf("attempt %d already %s: %w", attemptID, status, quiz.ErrInvalidState)
	}

	records, err := listAnswers(ctx, tx, attemptID)
	if err != nil {
		return model.Attempt{}, err
	}
	score, _, total, err := fn(records)
	if err != nil {
		return model.Attempt{}, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE quiz_attempts
		 SET status = $1, score = $2, total_questions = $3, submitted_at = $4
		 WHERE id = $5 AND status = $6`,
		model.StatusCompleted, score, total, time.Now().UTC(), attemptID, model.StatusInProgress)
	if err != nil {
		return model.Attempt{}, fmt.Errorf("finalize attempt: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Attempt{}, err
	} else if n != 1 {
		return model.Attempt{}, fmt.Errorf("attempt %d already completed: %w", attemptID, quiz.ErrInvalidState)
	}

	a, err := scanAttempt(tx.QueryRowContext(ctx, attemptQuery+` WHERE id = $1`, attemptID))
	if err != nil {
		return model.Attempt{}, err
	}
	return a, tx.Commit()
}

// ListAttempts returns all attempts of a quiz, newest first.
func (s *Store) ListAttempts(ctx context.Context, quizID int64) ([]model.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, attemptQuery+` WHERE quiz_id = $1 ORDER BY id DESC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var attempts []model.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

const attemptQuery = `SELECT id, user_id, quiz_id, status, score, total_questions, started_at, submitted_at
 FROM quiz_attempts`

func (s *Store) attemptStatus(ctx context.Context, tx *sql.Tx, attemptID int64) (model.AttemptStatus, error) {
	q := `SELECT status FROM quiz_attempts WHERE id = $1`
	if s.driver == DriverPostgres {
		q += ` FOR UPDATE`
	}
	var status model.AttemptStatus
	err := tx.QueryRowContext(ctx, q, attemptID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("attempt %d: %w", attemptID, quiz.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listAnswers(ctx context.Context, q querier, attemptID int64) ([]model.AnswerRecord, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT attempt_id, question_id, selected_option_id, is_correct, answered_at
		 FROM user_answers WHERE attempt_id = $1 ORDER BY question_id`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []model.AnswerRecord
	for rows.Next() {
		var r model.AnswerRecord
		if err := rows.Scan(&r.AttemptID, &r.QuestionID, &r.SelectedOptionID, &r.IsCorrect, &r.AnsweredAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (model.Attempt, error) {
	var a model.Attempt
	var score, total sql.NullInt64
	var submitted sql.NullTime
	err := row.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Status, &score, &total, &a.StartedAt, &submitted)
	if err != nil {
		return model.Attempt{}, err
	}
	if score.Valid {
		v := int(score.Int64)
		a.Score = &v
	}
	if total.Valid {
		v := int(total.Int64)
		a.TotalQuestions = &v
	}
	if submitted.Valid {
		t := submitted.Time
		a.SubmittedAt = &t
	}
	return a, nil
}
