package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"contas/internal/domain/budget"
	"contas/internal/domain/transaction"
	"contas/internal/shared/middleware"
)

type TransactionHandler struct {
	service *transaction.Service
	budgets *budget.Service
}

// NewTransactionHandler wires the transaction endpoints. budgets may be
// nil; without it expense recording skips the budget check.
func NewTransactionHandler(service *transaction.Service, budgets *budget.Service) *TransactionHandler {
	return &TransactionHandler{service: service, budgets: budgets}
}

type CreateTransactionRequest struct {
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date"`
}

// HandleList returns the user's transactions, newest first.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter := transaction.ListFilter{
		Type:   r.URL.Query().Get("type"),
		Search: r.URL.Query().Get("search"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	txs, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, transaction.ErrInvalidType) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error listing transactions for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if txs == nil {
		txs = []*transaction.Transaction{}
	}

	writeJSON(w, http.StatusOK, txs)
}

// HandleCreate records a new income or expense.
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)")
			return
		}
	}

	tx, err := h.service.Record(r.Context(), transaction.CreateParams{
		UserID:   userID,
		Title:    req.Title,
		Amount:   amount,
		Type:     req.Type,
		Category: req.Category,
		Date:     date,
	})
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrInvalidAmount), errors.Is(err, transaction.ErrInvalidType):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Error recording transaction for user %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, "Failed to record transaction")
		}
		return
	}

	// Re-evaluate the category budget after a new expense
	if h.budgets != nil && tx.Type == transaction.TypeExpense {
		if err := h.budgets.CheckSpending(r.Context(), userID, tx.Category); err != nil {
			log.Printf("Warning: budget check failed for user %d category %s: %v", userID, tx.Category, err)
		}
	}

	writeJSON(w, http.StatusCreated, tx)
}

// HandleGet returns a single transaction.
func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tx, err := h.service.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "Transaction not found")
		case errors.Is(err, transaction.ErrForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		default:
			log.Printf("Error getting transaction: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to get transaction")
		}
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

// HandleSummary returns total income, total expense, and balance.
func (h *TransactionHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summary, err := h.service.GetSummary(r.Context(), userID)
	if err != nil {
		log.Printf("Error getting summary for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// HandleCategoryReport returns the month's expenses grouped by category.
// Accepts ?month=YYYY-MM; defaults to the current month.
func (h *TransactionHandler) HandleCategoryReport(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.service.CategoryReport(r.Context(), userID, month)
	if err != nil {
		log.Printf("Error building category report for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}
	if report == nil {
		report = []transaction.CategoryTotal{}
	}

	writeJSON(w, http.StatusOK, report)
}
