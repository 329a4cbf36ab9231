package quiz

import (
	"errors"
	"testing"

	"github.com/quizroom/quizroom/internal/model"
)

func makeQuestions(n int, subjectID int64) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{ID: int64(i + 1), SubjectID: subjectID, OrderNum: i + 1}
	}
	return qs
}

func answer(questionID int64, correct bool) model.AnswerRecord {
	return model.AnswerRecord{QuestionID: questionID, SelectedOptionID: 1, IsCorrect: correct}
}

func TestComputeOverall(t *testing.T) {
	tests := []struct {
		name        string
		questions   int
		records     []model.AnswerRecord
		wantCorrect int
		wantPercent int
	}{
		{"no answers", 3, nil, 0, 0},
		{"all correct", 4, []model.AnswerRecord{
			answer(1, true), answer(2, true), answer(3, true), answer(4, true),
		}, 4, 100},
		{"all wrong", 4, []model.AnswerRecord{
			answer(1, false), answer(2, false), answer(3, false), answer(4, false),
		}, 0, 0},
		{"one of three rounds down", 3, []model.AnswerRecord{answer(1, true)}, 1, 33},
		{"two of three rounds up", 3, []model.AnswerRecord{
			answer(1, true), answer(2, true),
		}, 2, 67},
		{"unanswered count against the total", 4, []model.AnswerRecord{answer(1, true)}, 1, 25},
		{"exact half rounds away from zero", 200, []model.AnswerRecord{answer(1, true)}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeOverall(tt.records, makeQuestions(tt.questions, 1))
			if err != nil {
				t.Fatalf("ComputeOverall: %v", err)
			}
			if got.CorrectCount != tt.wantCorrect {
				t.Errorf("correct = %d, want %d", got.CorrectCount, tt.wantCorrect)
			}
			if got.TotalQuestions != tt.questions {
				t.Errorf("total = %d, want %d", got.TotalQuestions, tt.questions)
			}
			if got.ScorePercent != tt.wantPercent {
				t.Errorf("percent = %d, want %d", got.ScorePercent, tt.wantPercent)
			}
		})
	}
}

func TestComputeOverallNoQuestions(t *testing.T) {
	_, err := ComputeOverall(nil, nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestComputeOverallIgnoresForeignRecords(t *testing.T) {
	// A record for a question outside the quiz must not inflate the score.
	got, err := ComputeOverall(
		[]model.AnswerRecord{answer(1, true), answer(99, true)},
		makeQuestions(2, 1),
	)
	if err != nil {
		t.Fatalf("ComputeOverall: %v", err)
	}
	if got.CorrectCount != 1 {
		t.Errorf("correct = %d, want 1", got.CorrectCount)
	}
	if got.ScorePercent != 50 {
		t.Errorf("percent = %d, want 50", got.ScorePercent)
	}
}

func TestComputeBySubject(t *testing.T) {
	subjects := []model.Subject{
		{ID: 10, Name: "Math", Color: "#f00"},
		{ID: 20, Name: "History", Color: "#0f0"},
		{ID: 30, Name: "Empty", Color: "#00f"},
	}
	questions := []model.Question{
		{ID: 1, SubjectID: 10},
		{ID: 2, SubjectID: 10},
		{ID: 3, SubjectID: 20},
	}
	records := []model.AnswerRecord{
		answer(1, true),
		answer(2, false),
	}

	got := ComputeBySubject(records, questions, subjects)
	if len(got) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(got))
	}

	// Subjects keep their given order.
	if got[0].SubjectID != 10 || got[0].Name != "Math" {
		t.Errorf("unexpected first subject: %+v", got[0])
	}
	if got[0].CorrectCount != 1 || got[0].TotalQuestions != 2 {
		t.Errorf("Math = %d/%d, want 1/2", got[0].CorrectCount, got[0].TotalQuestions)
	}

	// An untouched subject still appears with zero correct.
	if got[1].SubjectID != 20 {
		t.Errorf("unexpected second subject: %+v", got[1])
	}
	if got[1].CorrectCount != 0 || got[1].TotalQuestions != 1 {
		t.Errorf("History = %d/%d, want 0/1", got[1].CorrectCount, got[1].TotalQuestions)
	}
}
