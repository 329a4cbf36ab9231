package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/quizroom/quizroom/internal/i18n"
	"github.com/quizroom/quizroom/internal/quiz"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// decode parses and validates a JSON request body. On failure it writes a
// 400 and reports false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondMessage(w, r, http.StatusBadRequest, "ErrInvalidBody")
		return false
	}
	if err := validate.Struct(v); err != nil {
		h.respondMessage(w, r, http.StatusBadRequest, "ErrValidation")
		return false
	}
	return true
}

// pathID parses an integer URL parameter. On failure it writes a 400 and
// reports false.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		h.respondMessage(w, r, http.StatusBadRequest, "ErrValidation")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondMessage(w http.ResponseWriter, r *http.Request, status int, msgID string) {
	writeJSON(w, status, map[string]string{"error": i18n.T(r.Context(), msgID)})
}

// respondError maps core error kinds to HTTP statuses. Unknown errors are
// logged and hidden behind a generic 500.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		h.respondMessage(w, r, http.StatusNotFound, "ErrNotFound")
	case errors.Is(err, quiz.ErrInvalidState):
		h.respondMessage(w, r, http.StatusConflict, "ErrInvalidState")
	case errors.Is(err, quiz.ErrValidation):
		h.respondMessage(w, r, http.StatusBadRequest, "ErrValidation")
	case errors.Is(err, quiz.ErrDataIntegrity):
		slog.Error("data integrity violation", "error", err)
		h.respondMessage(w, r, http.StatusInternalServerError, "ErrDataIntegrity")
	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		h.respondMessage(w, r, http.StatusInternalServerError, "ErrInternal")
	}
}
