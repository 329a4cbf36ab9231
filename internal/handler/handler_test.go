package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/quizroom/quizroom/internal/i18n"
	"github.com/quizroom/quizroom/internal/metrics"
	"github.com/quizroom/quizroom/internal/model"
	"github.com/quizroom/quizroom/internal/quiz"
	"github.com/quizroom/quizroom/internal/store"
)

// Prometheus collectors register globally, so tests share one instance.
var testMetrics = metrics.New("test")

func newTestRouter(t *testing.T) (chi.Router, *store.Store) {
	t.Helper()
	if err := i18n.Init("en"); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}
	s, err := store.New(store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	h := New(s, quiz.NewService(s, s), testMetrics)
	r := chi.NewRouter()
	r.Use(i18n.Middleware("en"))
	h.Routes(r)
	return r, s
}

func seedQuiz(t *testing.T, s *store.Store) int64 {
	t.Helper()
	id, err := s.ImportQuiz(context.Background(), model.QuizImport{
		Title:          "Capitals",
		Password:       "letmein",
		AuthorPassword: "reviewer",
		Subjects: []model.SubjectImport{
			{Name: "Europe", Color: "#00f"},
			{Name: "Asia", Color: "#f80"},
		},
		Questions: []model.QuestionImport{
			{Subject: 0, Text: "Capital of France?", Options: []model.OptionImport{
				{Text: "Paris", Correct: true}, {Text: "Lyon"},
			}},
			{Subject: 0, Text: "Capital of Spain?", Options: []model.OptionImport{
				{Text: "Barcelona"}, {Text: "Madrid", Correct: true},
			}},
			{Subject: 1, Text: "Capital of Japan?", Options: []model.OptionImport{
				{Text: "Tokyo", Correct: true}, {Text: "Osaka"},
			}},
		},
	}, false)
	if err != nil {
		t.Fatalf("seedQuiz: %v", err)
	}
	return id
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	} else {
		buf.WriteString("{}")
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func TestHealthAndPing(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	if resp["status"] != "OK" {
		t.Errorf("health status field = %v", resp["status"])
	}

	w, resp = doJSON(t, r, http.MethodGet, "/api/ping", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ping status = %d", w.Code)
	}
	if resp["status"] != "connected" {
		t.Errorf("ping status field = %v", resp["status"])
	}

	req := httptest.NewRequest(http.MethodHead, "/api/ping", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Errorf("HEAD ping status = %d", w2.Code)
	}
}

func TestVerify(t *testing.T) {
	r, s := newTestRouter(t)
	quizID := seedQuiz(t, s)
	path := fmt.Sprintf("/api/quiz/%d/verify", quizID)

	w, _ := doJSON(t, r, http.MethodPost, path, map[string]string{"password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", w.Code)
	}

	w, resp := doJSON(t, r, http.MethodPost, path, map[string]string{"password": "letmein"})
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", w.Code, w.Body.String())
	}
	if resp["success"] != true {
		t.Error("expected success true")
	}
	// Secrets never leave the server.
	quizObj, ok := resp["quiz"].(map[string]any)
	if !ok {
		t.Fatalf("missing quiz object: %v", resp)
	}
	if _, leaked := quizObj["password"]; leaked {
		t.Error("quiz password leaked in response")
	}
	if _, leaked := quizObj["author_password"]; leaked {
		t.Error("author password leaked in response")
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/quiz/9999/verify", map[string]string{"password": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown quiz status = %d, want 404", w.Code)
	}
}

func TestQuestions(t *testing.T) {
	r, s := newTestRouter(t)
	quizID := seedQuiz(t, s)

	w, resp := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/quiz/%d/questions", quizID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("questions status = %d", w.Code)
	}
	if resp["total_questions"] != float64(3) {
		t.Errorf("total_questions = %v, want 3", resp["total_questions"])
	}
	subjects, ok := resp["subjects"].([]any)
	if !ok || len(subjects) != 2 {
		t.Errorf("expected 2 subjects, got %v", resp["subjects"])
	}
}

func TestAttemptFlow(t *testing.T) {
	r, s := newTestRouter(t)
	quizID := seedQuiz(t, s)

	// Start.
	w, resp := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quiz/%d/start", quizID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d, body %s", w.Code, w.Body.String())
	}
	attemptID := int64(resp["attempt_id"].(float64))

	// Answer the first question correctly, the second wrongly.
	questions, err := s.ListQuestions(context.Background(), quizID)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	pick := func(q model.Question, correct bool) int64 {
		for _, o := range q.Options {
			if o.IsCorrect == correct {
				return o.ID
			}
		}
		t.Fatalf("no option with correct=%v", correct)
		return 0
	}
	for _, ans := range []map[string]any{
		{"attempt_id": attemptID, "question_id": questions[0].ID, "selected_option_id": pick(questions[0], true)},
		{"attempt_id": attemptID, "question_id": questions[1].ID, "selected_option_id": pick(questions[1], false)},
	} {
		w, resp = doJSON(t, r, http.MethodPost, "/api/quiz/answer", ans)
		if w.Code != http.StatusOK {
			t.Fatalf("answer status = %d, body %s", w.Code, w.Body.String())
		}
	}

	// Missing fields fail validation.
	w, _ = doJSON(t, r, http.MethodPost, "/api/quiz/answer", map[string]any{"attempt_id": attemptID})
	if w.Code != http.StatusBadRequest {
		t.Errorf("incomplete answer status = %d, want 400", w.Code)
	}

	// Submit.
	submitPath := fmt.Sprintf("/api/quiz/%d/submit", quizID)
	w, resp = doJSON(t, r, http.MethodPost, submitPath, map[string]any{"attempt_id": attemptID})
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", w.Code, w.Body.String())
	}
	if resp["score"] != float64(33) {
		t.Errorf("score = %v, want 33", resp["score"])
	}
	if resp["correct_answers"] != float64(1) || resp["total_questions"] != float64(3) {
		t.Errorf("unexpected counts: %v", resp)
	}
	if resp["message"] != "You answered 1 of 3 questions correctly" {
		t.Errorf("message = %v", resp["message"])
	}
	bySubject, ok := resp["by_subject"].([]any)
	if !ok || len(bySubject) != 2 {
		t.Fatalf("expected 2 subject scores, got %v", resp["by_subject"])
	}

	// Second submit conflicts.
	w, _ = doJSON(t, r, http.MethodPost, submitPath, map[string]any{"attempt_id": attemptID})
	if w.Code != http.StatusConflict {
		t.Errorf("second submit status = %d, want 409", w.Code)
	}

	// Answering after submit conflicts too.
	w, _ = doJSON(t, r, http.MethodPost, "/api/quiz/answer", map[string]any{
		"attempt_id": attemptID, "question_id": questions[2].ID, "selected_option_id": pick(questions[2], true),
	})
	if w.Code != http.StatusConflict {
		t.Errorf("answer after submit status = %d, want 409", w.Code)
	}

	// Results without the author password: no answer sheet.
	resultsPath := fmt.Sprintf("/api/quiz/%d/results", quizID)
	w, resp = doJSON(t, r, http.MethodPost, resultsPath, map[string]any{"attempt_id": attemptID})
	if w.Code != http.StatusOK {
		t.Fatalf("results status = %d", w.Code)
	}
	if resp["show_correct_answers"] != false {
		t.Error("expected show_correct_answers false without author password")
	}
	if _, present := resp["answers"]; present {
		t.Error("answers leaked without authorization")
	}

	// With the author password the sheet is revealed.
	w, resp = doJSON(t, r, http.MethodPost, resultsPath, map[string]any{
		"attempt_id": attemptID, "author_password": "reviewer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("authorized results status = %d", w.Code)
	}
	if resp["show_correct_answers"] != true {
		t.Fatal("expected show_correct_answers true")
	}
	answers, ok := resp["answers"].([]any)
	if !ok || len(answers) != 3 {
		t.Fatalf("expected 3 answer details, got %v", resp["answers"])
	}

	// Stats now count the completed attempt.
	w, resp = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/quiz/%d/stats", quizID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	overall, ok := resp["overall_stats"].(map[string]any)
	if !ok {
		t.Fatalf("missing overall_stats: %v", resp)
	}
	if overall["total_attempts"] != float64(1) {
		t.Errorf("total_attempts = %v, want 1", overall["total_attempts"])
	}
}

func TestSubmitUnknownAttempt(t *testing.T) {
	r, s := newTestRouter(t)
	quizID := seedQuiz(t, s)

	w, _ := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quiz/%d/submit", quizID),
		map[string]any{"attempt_id": 9999})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestBadQuizIDParam(t *testing.T) {
	r, _ := newTestRouter(t)
	w, _ := doJSON(t, r, http.MethodGet, "/api/quiz/abc/questions", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
