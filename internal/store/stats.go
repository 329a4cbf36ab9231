package store

import (
	"context"
	"database/sql"

	"github.com/quizroom/quizroom/internal/model"
)

// GetQuizStats aggregates the completed attempts of a quiz. Averages and
// extremes are nil when no attempt has been completed yet.
func (s *Store) GetQuizStats(ctx context.Context, quizID int64) (model.QuizStats, error) {
	var st model.QuizStats
	var avg sql.NullFloat64
	var max, min sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(score), MAX(score), MIN(score)
		 FROM quiz_attempts
		 WHERE quiz_id = $1 AND status = $2`,
		quizID, model.StatusCompleted,
	).Scan(&st.TotalAttempts, &avg, &max, &min)
	if err != nil {
		return model.QuizStats{}, err
	}
	if avg.Valid {
		st.AverageScore = &avg.Float64
	}
	if max.Valid {
		v := int(max.Int64)
		st.HighestScore = &v
	}
	if min.Valid {
		v := int(min.Int64)
		st.LowestScore = &v
	}
	return st, nil
}

// ListDifficultQuestions ranks the quiz's questions by error rate across
// all recorded answers, most-missed first, limited to the given count.
// Questions nobody has answered yet are left out.
func (s *Store) ListDifficultQuestions(ctx context.Context, quizID int64, limit int) ([]model.QuestionDifficulty, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT q.id, q.question_text, sub.name,
		        COUNT(ua.question_id),
		        SUM(CASE WHEN ua.is_correct THEN 0 ELSE 1 END)
		 FROM questions q
		 JOIN subjects sub ON q.subject_id = sub.id
		 JOIN user_answers ua ON q.id = ua.question_id
		 WHERE q.quiz_id = $1
		 GROUP BY q.id, q.question_text, sub.name
		 ORDER BY SUM(CASE WHEN ua.is_correct THEN 0 ELSE 1 END) * 1.0 / COUNT(ua.question_id) DESC
		 LIMIT $2`, quizID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.QuestionDifficulty
	for rows.Next() {
		var d model.QuestionDifficulty
		if err := rows.Scan(&d.QuestionID, &d.QuestionText, &d.SubjectName, &d.TotalAnswers, &d.WrongAnswers); err != nil {
			return nil, err
		}
		if d.TotalAnswers > 0 {
			d.ErrorRate = float64(d.WrongAnswers) / float64(d.TotalAnswers) * 100
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
