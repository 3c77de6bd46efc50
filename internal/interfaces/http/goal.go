package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"contas/internal/domain/goal"
	"contas/internal/shared/middleware"
)

type GoalHandler struct {
	service *goal.Service
}

func NewGoalHandler(service *goal.Service) *GoalHandler {
	return &GoalHandler{service: service}
}

type CreateGoalRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"targetAmount"`
	Deadline     string `json:"deadline,omitempty"`
	Category     string `json:"category,omitempty"`
}

type DepositRequest struct {
	Amount string `json:"amount"`
}

// GoalResponse augments a goal with its computed progress.
type GoalResponse struct {
	*goal.Goal
	Progress    float64 `json:"progress"`
	IsCompleted bool    `json:"isCompleted"`
}

func goalResponse(g *goal.Goal) GoalResponse {
	return GoalResponse{Goal: g, Progress: g.Progress(), IsCompleted: g.IsCompleted()}
}

// HandleList returns the user's savings goals.
func (h *GoalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset := 50, 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	goals, err := h.service.List(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("Error listing goals for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}

	responses := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		responses = append(responses, goalResponse(g))
	}
	writeJSON(w, http.StatusOK, responses)
}

// HandleCreate creates a new savings goal.
func (h *GoalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target amount")
		return
	}

	var deadline time.Time
	if req.Deadline != "" {
		deadline, err = time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid deadline format (use YYYY-MM-DD)")
			return
		}
	}

	g, err := h.service.Create(r.Context(), goal.CreateParams{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: target,
		Deadline:     deadline,
		Category:     req.Category,
	})
	if err != nil {
		if errors.Is(err, goal.ErrInvalidTarget) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error creating goal for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create goal")
		return
	}

	writeJSON(w, http.StatusCreated, goalResponse(g))
}

// HandleDeposit adds money toward a goal.
func (h *GoalHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	g, err := h.service.Deposit(r.Context(), r.PathValue("id"), userID, amount)
	if err != nil {
		switch {
		case errors.Is(err, goal.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, goal.ErrGoalNotFound):
			writeError(w, http.StatusNotFound, "Goal not found")
		case errors.Is(err, goal.ErrForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		default:
			log.Printf("Error depositing to goal: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to deposit")
		}
		return
	}

	writeJSON(w, http.StatusOK, goalResponse(g))
}

// HandleDelete removes a goal.
func (h *GoalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		switch {
		case errors.Is(err, goal.ErrGoalNotFound):
			writeError(w, http.StatusNotFound, "Goal not found")
		case errors.Is(err, goal.ErrForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		default:
			log.Printf("Error deleting goal: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete goal")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
