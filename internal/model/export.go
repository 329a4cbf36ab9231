package model

import "time"

// QuizExport is the top-level JSON structure for attempt result export.
type QuizExport struct {
	QuizID         int64           `json:"quiz_id"`
	Title          string          `json:"title"`
	TotalQuestions int             `json:"total_questions"`
	ExportedAt     time.Time       `json:"exported_at"`
	Attempts       []AttemptResult `json:"attempts"`
}

// AttemptResult holds one attempt's data for export.
type AttemptResult struct {
	AttemptID      int64          `json:"attempt_id"`
	UserID         int64          `json:"user_id"`
	Status         AttemptStatus  `json:"status"`
	Score          *int           `json:"score,omitempty"`
	TotalQuestions *int           `json:"total_questions,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	SubmittedAt    *time.Time     `json:"submitted_at,omitempty"`
	Answers        []AnswerExport `json:"answers"`
}

// AnswerExport holds one recorded answer for export.
type AnswerExport struct {
	QuestionID       int64     `json:"question_id"`
	SelectedOptionID int64     `json:"selected_option_id"`
	IsCorrect        bool      `json:"is_correct"`
	AnsweredAt       time.Time `json:"answered_at"`
}
