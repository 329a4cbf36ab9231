package quiz

import "errors"

// Error kinds surfaced by the core. Callers classify with errors.Is; the
// HTTP layer maps them to status codes. None of these are retried here —
// every store write is idempotent-safe to retry from the outside.
var (
	// ErrNotFound marks an unknown quiz, attempt, or question.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation against an attempt in the wrong
	// lifecycle state, e.g. recording an answer after submission.
	ErrInvalidState = errors.New("invalid attempt state")

	// ErrValidation marks malformed input, e.g. an option that does not
	// belong to the question, or a quiz with no questions.
	ErrValidation = errors.New("validation failed")

	// ErrDataIntegrity marks corrupt question data: zero or multiple
	// options flagged correct. The engine surfaces this rather than guess.
	ErrDataIntegrity = errors.New("question data integrity violation")
)
