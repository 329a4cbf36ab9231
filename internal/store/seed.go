package store

import (
	"context"
	"fmt"

	"github.com/quizroom/quizroom/internal/auth"
	"github.com/quizroom/quizroom/internal/model"
	"github.com/quizroom/quizroom/internal/quiz"
)

// ImportQuiz loads one quiz with its subjects, questions, and options in a
// single transaction. Question display order follows file order, 1-based.
// Every question must have exactly one correct option; a bad question
// aborts the whole import so corrupt data never reaches the bank. With
// hashSecrets the quiz and author passwords are stored bcrypt-hashed.
func (s *Store) ImportQuiz(ctx context.Context, imp model.QuizImport, hashSecrets bool) (int64, error) {
	if imp.Title == "" {
		return 0, fmt.Errorf("quiz title is required: %w", quiz.ErrValidation)
	}
	if len(imp.Questions) == 0 {
		return 0, fmt.Errorf("quiz %q has no questions: %w", imp.Title, quiz.ErrValidation)
	}
	for i, q := range imp.Questions {
		if q.Subject < 0 || q.Subject >= len(imp.Subjects) {
			return 0, fmt.Errorf("question %d references unknown subject %d: %w", i+1, q.Subject, quiz.ErrValidation)
		}
		correct := 0
		for _, o := range q.Options {
			if o.Correct {
				correct++
			}
		}
		if correct != 1 {
			return 0, fmt.Errorf("question %d has %d correct options: %w", i+1, correct, quiz.ErrDataIntegrity)
		}
	}

	password, authorPassword := imp.Password, imp.AuthorPassword
	if hashSecrets {
		var err error
		if password != "" {
			if password, err = auth.Hash(password); err != nil {
				return 0, fmt.Errorf("hash quiz password: %w", err)
			}
		}
		if authorPassword != "" {
			if authorPassword, err = auth.Hash(authorPassword); err != nil {
				return 0, fmt.Errorf("hash author password: %w", err)
			}
		}
	}
	active := true
	if imp.Active != nil {
		active = *imp.Active
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var quizID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO quizzes (title, description, time_limit_minutes, passing_score, password, author_password, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		imp.Title, imp.Description, imp.TimeLimitMinutes, imp.PassingScore,
		password, authorPassword, active,
	).Scan(&quizID)
	if err != nil {
		return 0, fmt.Errorf("insert quiz: %w", err)
	}

	subjectIDs := make([]int64, len(imp.Subjects))
	subjectCounts := make([]int, len(imp.Subjects))
	for _, q := range imp.Questions {
		subjectCounts[q.Subject]++
	}
	for i, sub := range imp.Subjects {
		err = tx.QueryRowContext(ctx,
			`INSERT INTO subjects (name, color) VALUES ($1, $2) RETURNING id`,
			sub.Name, sub.Color,
		).Scan(&subjectIDs[i])
		if err != nil {
			return 0, fmt.Errorf("insert subject %q: %w", sub.Name, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO quiz_subjects (quiz_id, subject_id, question_count) VALUES ($1, $2, $3)`,
			quizID, subjectIDs[i], subjectCounts[i])
		if err != nil {
			return 0, fmt.Errorf("link subject %q: %w", sub.Name, err)
		}
	}

	for i, q := range imp.Questions {
		qType := q.Type
		if qType == "" {
			qType = model.QuestionMultipleChoice
		}
		points := q.Points
		if points == 0 {
			points = 1
		}
		var questionID int64
		err = tx.QueryRowContext(ctx,
			`INSERT INTO questions (quiz_id, subject_id, question_text, question_type, points, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			quizID, subjectIDs[q.Subject], q.Text, qType, points, i+1,
		).Scan(&questionID)
		if err != nil {
			return 0, fmt.Errorf("insert question %d: %w", i+1, err)
		}
		for j, o := range q.Options {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO question_options (question_id, option_text, is_correct, order_num)
				 VALUES ($1, $2, $3, $4)`,
				questionID, o.Text, o.Correct, j+1)
			if err != nil {
				return 0, fmt.Errorf("insert option %d of question %d: %w", j+1, i+1, err)
			}
		}
	}

	return quizID, tx.Commit()
}
