package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"contas/internal/domain/quiz"
	"contas/internal/domain/user"
	"contas/internal/shared/middleware"
)

// QuizHandler serves the onboarding quiz. Completing the quiz marks the
// user as onboarded.
type QuizHandler struct {
	userRepo user.Repository
}

func NewQuizHandler(userRepo user.Repository) *QuizHandler {
	return &QuizHandler{userRepo: userRepo}
}

// HandleQuestions returns the onboarding question set.
func (h *QuizHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, quiz.Questions())
}

type SubmitQuizRequest struct {
	Answers []int `json:"answers"`
}

// HandleSubmit evaluates the answers and marks the user as onboarded.
func (h *QuizHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := quiz.Evaluate(req.Answers)
	if err != nil {
		if errors.Is(err, quiz.ErrInvalidAnswers) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to evaluate quiz")
		return
	}

	if err := h.userRepo.MarkOnboarded(r.Context(), userID); err != nil {
		log.Printf("Warning: failed to mark user %d as onboarded: %v", userID, err)
	}

	writeJSON(w, http.StatusOK, result)
}
