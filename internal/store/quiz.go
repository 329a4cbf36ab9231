package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quizroom/quizroom/internal/model"
	"github.com/quizroom/quizroom/internal/quiz"
)

// GetQuiz returns a quiz with its secrets. Callers decide whether the
// active flag matters; inactive quizzes are still readable for review.
func (s *Store) GetQuiz(ctx context.Context, quizID int64) (model.Quiz, error) {
	var q model.Quiz
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, time_limit_minutes, passing_score, password, author_password, is_active
		 FROM quizzes WHERE id = $1`, quizID,
	).Scan(&q.ID, &q.Title, &q.Description, &q.TimeLimitMinutes, &q.PassingScore,
		&q.Password, &q.AuthorPassword, &q.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quiz{}, fmt.Errorf("quiz %d: %w", quizID, quiz.ErrNotFound)
	}
	if err != nil {
		return model.Quiz{}, err
	}
	return q, nil
}

// ListSubjects returns the quiz's subjects with their question counts.
func (s *Store) ListSubjects(ctx context.Context, quizID int64) ([]model.Subject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sub.id, sub.name, sub.color, qs.question_count
		 FROM subjects sub
		 JOIN quiz_subjects qs ON sub.id = qs.subject_id
		 WHERE qs.quiz_id = $1
		 ORDER BY sub.id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subjects []model.Subject
	for rows.Next() {
		var sub model.Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Color, &sub.QuestionCount); err != nil {
			return nil, err
		}
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

// ListQuestions returns the quiz's questions in display order, each with
// its options in option display order.
func (s *Store) ListQuestions(ctx context.Context, quizID int64) ([]model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT q.id, q.quiz_id, q.subject_id, q.question_text, q.question_type, q.points, q.order_num,
		        o.id, o.option_text, o.is_correct, o.order_num
		 FROM questions q
		 LEFT JOIN question_options o ON q.id = o.question_id
		 WHERE q.quiz_id = $1
		 ORDER BY q.order_num, o.order_num`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	index := map[int64]int{}
	for rows.Next() {
		var q model.Question
		var optID sql.NullInt64
		var optText sql.NullString
		var optCorrect sql.NullBool
		var optOrder sql.NullInt64
		if err := rows.Scan(&q.ID, &q.QuizID, &q.SubjectID, &q.Text, &q.Type, &q.Points, &q.OrderNum,
			&optID, &optText, &optCorrect, &optOrder); err != nil {
			return nil, err
		}
		i, seen := index[q.ID]
		if !seen {
			questions = append(questions, q)
			i = len(questions) - 1
			index[q.ID] = i
		}
		if optID.Valid {
			questions[i].Options = append(questions[i].Options, model.Option{
				ID:         optID.Int64,
				QuestionID: q.ID,
				Text:       optText.String,
				IsCorrect:  optCorrect.Bool,
				OrderNum:   int(optOrder.Int64),
			})
		}
	}
	return questions, rows.Err()
}

// GetQuestion returns a single question without its options.
func (s *Store) GetQuestion(ctx context.Context, questionID int64) (model.Question, error) {
	var q model.Question
	err := s.db.QueryRowContext(ctx,
		`SELECT id, quiz_id, subject_id, question_text, question_type, points, order_num
		 FROM questions WHERE id = $1`, questionID,
	).Scan(&q.ID, &q.QuizID, &q.SubjectID, &q.Text, &q.Type, &q.Points, &q.OrderNum)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Question{}, fmt.Errorf("question %d: %w", questionID, quiz.ErrNotFound)
	}
	if err != nil {
		return model.Question{}, err
	}
	return q, nil
}

// GetOption returns a single option by ID.
func (s *Store) GetOption(ctx context.Context, optionID int64) (model.Option, error) {
	var o model.Option
	err := s.db.QueryRowContext(ctx,
		`SELECT id, question_id, option_text, is_correct, order_num
		 FROM question_options WHERE id = $1`, optionID,
	).Scan(&o.ID, &o.QuestionID, &o.Text, &o.IsCorrect, &o.OrderNum)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Option{}, fmt.Errorf("option %d: %w", optionID, quiz.ErrNotFound)
	}
	if err != nil {
		return model.Option{}, err
	}
	return o, nil
}

// QuizCount returns the number of quizzes in the database.
func (s *Store) QuizCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes`).Scan(&count)
	return count, err
}
