package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"contas/internal/domain/budget"
	"contas/internal/shared/middleware"
)

type BudgetHandler struct {
	service *budget.Service
}

func NewBudgetHandler(service *budget.Service) *BudgetHandler {
	return &BudgetHandler{service: service}
}

type BudgetRequest struct {
	Category     string `json:"category"`
	MonthlyLimit string `json:"monthlyLimit"`
}

// HandleList returns budgets with the month's spending and status.
// Accepts ?month=YYYY-MM; defaults to the current month.
func (h *BudgetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var month time.Time
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		var err error
		month, err = time.Parse("2006-01", monthStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)")
			return
		}
	}

	reports, err := h.service.List(r.Context(), userID, month)
	if err != nil {
		log.Printf("Error listing budgets for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list budgets")
		return
	}
	if reports == nil {
		reports = []*budget.Report{}
	}

	writeJSON(w, http.StatusOK, reports)
}

// HandleCreate sets a monthly spending limit for a category.
func (h *BudgetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	limit, err := decimal.NewFromString(req.MonthlyLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid monthly limit")
		return
	}

	b, err := h.service.Create(r.Context(), budget.CreateParams{
		UserID:       userID,
		Category:     req.Category,
		MonthlyLimit: limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, budget.ErrInvalidLimit):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, budget.ErrCategoryTaken):
			writeError(w, http.StatusConflict, "A budget for this category already exists")
		default:
			log.Printf("Error creating budget for user %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, "Failed to create budget")
		}
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// HandleUpdate changes a budget's monthly limit.
func (h *BudgetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	limit, err := decimal.NewFromString(req.MonthlyLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid monthly limit")
		return
	}

	b, err := h.service.Update(r.Context(), r.PathValue("id"), userID, budget.CreateParams{
		UserID:       userID,
		Category:     req.Category,
		MonthlyLimit: limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, budget.ErrInvalidLimit):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, budget.ErrBudgetNotFound):
			writeError(w, http.StatusNotFound, "Budget not found")
		case errors.Is(err, budget.ErrForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		default:
			log.Printf("Error updating budget: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to update budget")
		}
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// HandleDelete removes a budget.
func (h *BudgetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		switch {
		case errors.Is(err, budget.ErrBudgetNotFound):
			writeError(w, http.StatusNotFound, "Budget not found")
		case errors.Is(err, budget.ErrForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		default:
			log.Printf("Error deleting budget: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete budget")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
