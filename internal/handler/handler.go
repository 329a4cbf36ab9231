package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quizroom/quizroom/internal/auth"
	"github.com/quizroom/quizroom/internal/i18n"
	"github.com/quizroom/quizroom/internal/metrics"
	"github.com/quizroom/quizroom/internal/quiz"
	"github.com/quizroom/quizroom/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store   *store.Store
	svc     *quiz.Service
	metrics *metrics.Metrics
}

// New creates a new Handler.
func New(s *store.Store, svc *quiz.Service, m *metrics.Metrics) *Handler {
	return &Handler{store: s, svc: svc, metrics: m}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/health", h.handleHealth)
	r.Get("/api/ping", h.handlePing)
	r.Head("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/quiz", func(r chi.Router) {
		r.Post("/answer", h.handleAnswer)
		r.Route("/{quizID}", func(r chi.Router) {
			r.Post("/verify", h.handleVerify)
			r.Get("/questions", h.handleQuestions)
			r.Post("/start", h.handleStart)
			r.Post("/submit", h.handleSubmit)
			r.Post("/results", h.handleResults)
			r.Get("/stats", h.handleStats)
		})
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "quiz API is running",
	})
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type verifyRequest struct {
	Password string `json:"password"`
}

// handleVerify is the entry gate: it checks the quiz password before the
// client is allowed to start an attempt. The attempt core itself never
// re-checks this secret.
func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.pathID(w, r, "quizID")
	if !ok {
		return
	}
	var req verifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	q, err := h.store.GetQuiz(r.Context(), quizID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !q.Active {
		h.respondMessage(w, r, http.StatusNotFound, "ErrQuizNotFound")
		return
	}
	if q.Password != "" && !auth.Verify(q.Password, req.Password) {
		h.respondMessage(w, r, http.StatusUnauthorized, "ErrInvalidPassword")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"quiz":    q,
	})
}

// handleQuestions serves the presentation feed: subjects and questions with
// their options. Scoring never trusts this payload; correctness is always
// re-derived from storage when an answer is recorded.
func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.pathID(w, r, "quizID")
	if !ok {
		return
	}
	if _, err := h.store.GetQuiz(r.Context(), quizID); err != nil {
		h.respondError(w, r, err)
		return
	}

	subjects, err := h.store.ListSubjects(r.Context(), quizID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	questions, err := h.store.ListQuestions(r.Context(), quizID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"subjects":        subjects,
		"questions":       questions,
		"total_questions": len(questions),
	})
}

type startRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.pathID(w, r, "quizID")
	if !ok {
		return
	}
	var req startRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.UserID == 0 {
		req.UserID = 1
	}

	attempt, err := h.svc.Start(r.Context(), quizID, req.UserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.metrics.AttemptsStarted.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"attempt_id": attempt.ID,
	})
}

type answerRequest struct {
	AttemptID        int64 `json:"attempt_id" validate:"required"`
	QuestionID       int64 `json:"question_id" validate:"required"`
	SelectedOptionID int64 `json:"selected_option_id" validate:"required"`
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.Record(r.Context(), req.AttemptID, req.QuestionID, req.SelectedOptionID); err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type submitRequest struct {
	AttemptID int64 `json:"attempt_id" validate:"required"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.pathID(w, r, "quizID"); !ok {
		return
	}
	var req submitRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.Submit(r.Context(), req.AttemptID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.metrics.AttemptsScored.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"score":           result.Score,
		"correct_answers": result.CorrectAnswers,
		"total_questions": result.TotalQuestions,
		"by_subject":      result.BySubject,
		"message": i18n.Td(r.Context(), "ScoreSummary", map[string]any{
			"Correct": result.CorrectAnswers,
			"Total":   result.TotalQuestions,
		}),
	})
}

type resultsRequest struct {
	AttemptID      int64  `json:"attempt_id" validate:"required"`
	AuthorPassword string `json:"author_password"`
}

// handleResults reveals the answer sheet to a reviewer holding the quiz's
// author password. Without it the response carries only the authorization
// flag — never the correct options.
func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.pathID(w, r, "quizID")
	if !ok {
		return
	}
	var req resultsRequest
	if !h.decode(w, r, &req) {
		return
	}

	answers, authorized, err := h.svc.RevealAnswers(r.Context(), req.AttemptID, quizID, req.AuthorPassword)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := map[string]any{"show_correct_answers": authorized}
	if authorized {
		resp["answers"] = answers
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	quizID, ok := h.pathID(w, r, "quizID")
	if !ok {
		return
	}
	if _, err := h.store.GetQuiz(r.Context(), quizID); err != nil {
		h.respondError(w, r, err)
		return
	}

	stats, err := h.store.GetQuizStats(r.Context(), quizID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	difficult, err := h.store.ListDifficultQuestions(r.Context(), quizID, 10)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"overall_stats":            stats,
		"most_difficult_questions": difficult,
	})
}
