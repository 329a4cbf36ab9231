package model

import "time"

// AttemptStatus represents the lifecycle state of a quiz attempt.
type AttemptStatus string

const (
	// StatusInProgress is the initial state of a freshly started attempt.
	StatusInProgress AttemptStatus = "in_progress"
	// StatusCompleted is the terminal state reached by a successful submit.
	StatusCompleted AttemptStatus = "completed"
)

// QuestionType represents the kind of a question. Only multiple choice is
// supported today; the column exists so new types don't need a migration.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
)

// Quiz is a published quiz. Immutable at runtime; the password gates entry
// and the author password gates the reveal of correct answers. The two are
// independent secrets and are never compared against each other.
type Quiz struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
	PassingScore     int    `json:"passing_score"`
	Password         string `json:"-"`
	AuthorPassword   string `json:"-"`
	Active           bool   `json:"is_active"`
}

// Subject groups questions for labeling and per-subject score breakdowns.
type Subject struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	QuestionCount int    `json:"question_count"`
}

// Option is one selectable answer of a question.
type Option struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
	OrderNum   int    `json:"order_num"`
}

// Question is one quiz question with its options in display order.
type Question struct {
	ID        int64        `json:"id"`
	QuizID    int64        `json:"quiz_id"`
	SubjectID int64        `json:"subject_id"`
	Text      string       `json:"question_text"`
	Type      QuestionType `json:"question_type"`
	Points    int          `json:"points"`
	OrderNum  int          `json:"order_num"`
	Options   []Option     `json:"options"`
}

// Attempt is one take of one quiz by one user. Score and TotalQuestions are
// set exactly once, when the attempt is submitted.
type Attempt struct {
	ID             int64         `json:"id"`
	UserID         int64         `json:"user_id"`
	QuizID         int64         `json:"quiz_id"`
	Status         AttemptStatus `json:"status"`
	Score          *int          `json:"score,omitempty"`
	TotalQuestions *int          `json:"total_questions,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	SubmittedAt    *time.Time    `json:"submitted_at,omitempty"`
}

// AnswerRecord is the latest recorded selection for one question within one
// attempt. At most one record exists per (attempt, question); re-recording
// overwrites the selection, correctness, and timestamp.
type AnswerRecord struct {
	AttemptID        int64     `json:"attempt_id"`
	QuestionID       int64     `json:"question_id"`
	SelectedOptionID int64     `json:"selected_option_id"`
	IsCorrect        bool      `json:"is_correct"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// SubmitResult is what a successful submit returns.
type SubmitResult struct {
	Score          int            `json:"score"`
	CorrectAnswers int            `json:"correct_answers"`
	TotalQuestions int            `json:"total_questions"`
	BySubject      []SubjectScore `json:"by_subject"`
}

// SubjectScore is the per-subject slice of a scored attempt. Every subject
// with at least one question in the quiz appears, answered or not.
type SubjectScore struct {
	SubjectID      int64  `json:"subject_id"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	CorrectCount   int    `json:"correct_count"`
	TotalQuestions int    `json:"total_questions"`
}

// AnswerDetail is one row of the reviewer's answer sheet: the test-taker's
// selection joined with the question's single correct option.
type AnswerDetail struct {
	QuestionID      int64  `json:"question_id"`
	QuestionText    string `json:"question_text"`
	OrderNum        int    `json:"order_num"`
	Answered        bool   `json:"answered"`
	SelectedOption  string `json:"selected_option,omitempty"`
	CorrectOptionID int64  `json:"correct_option_id"`
	CorrectOption   string `json:"correct_option"`
	IsCorrect       bool   `json:"is_correct"`
}

// QuizStats summarizes completed attempts of a quiz.
type QuizStats struct {
	TotalAttempts int      `json:"total_attempts"`
	AverageScore  *float64 `json:"average_score,omitempty"`
	HighestScore  *int     `json:"highest_score,omitempty"`
	LowestScore   *int     `json:"lowest_score,omitempty"`
}

// QuestionDifficulty ranks a question by how often it is missed.
type QuestionDifficulty struct {
	QuestionID   int64   `json:"question_id"`
	QuestionText string  `json:"question_text"`
	SubjectName  string  `json:"subject_name"`
	TotalAnswers int     `json:"total_answers"`
	WrongAnswers int     `json:"wrong_answers"`
	ErrorRate    float64 `json:"error_rate"`
}
