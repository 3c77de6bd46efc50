package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"contas/internal/domain/bill"
	"contas/internal/domain/reminder"
	"contas/internal/shared/middleware"
)

type BillHandler struct {
	service   *bill.Service
	reminders *reminder.Service
}

// NewBillHandler builds the bill handler. reminders may be nil when
// reminder scheduling is disabled; listing reminders then yields an
// empty set.
func NewBillHandler(service *bill.Service, reminders *reminder.Service) *BillHandler {
	return &BillHandler{service: service, reminders: reminders}
}

type CreateBillRequest struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	DueDate  string `json:"dueDate"`
	Category string `json:"category,omitempty"`
}

// BillResponse augments a bill with its due-date classification.
type BillResponse struct {
	*bill.Bill
	DaysUntilDue int  `json:"daysUntilDue"`
	IsUrgent     bool `json:"isUrgent"`
	IsOverdue    bool `json:"isOverdue"`
}

func billResponse(b *bill.Bill, now time.Time) BillResponse {
	return BillResponse{
		Bill:         b,
		DaysUntilDue: b.DaysUntilDue(now),
		IsUrgent:     b.IsUrgent(now),
		IsOverdue:    b.IsOverdue(now),
	}
}

// HandleList returns the user's unpaid bills ordered by due date.
// With ?includePaid=true it pages through every bill, settled or not.
func (h *BillHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var bills []*bill.Bill
	var err error
	if r.URL.Query().Get("includePaid") == "true" {
		limit, offset := 50, 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if parsed, pErr := strconv.Atoi(limitStr); pErr == nil && parsed > 0 {
				limit = parsed
			}
		}
		if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
			if parsed, pErr := strconv.Atoi(offsetStr); pErr == nil && parsed >= 0 {
				offset = parsed
			}
		}
		bills, err = h.service.List(r.Context(), userID, limit, offset)
	} else {
		bills, err = h.service.ListUpcoming(r.Context(), userID)
	}
	if err != nil {
		log.Printf("Error listing bills for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list bills")
		return
	}

	now := time.Now()
	responses := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		responses = append(responses, billResponse(b, now))
	}
	writeJSON(w, http.StatusOK, responses)
}

// HandleCreate registers a new bill and schedules its reminders.
func (h *BillHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		// Also accept a plain date
		dueDate, err = time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid due date (use RFC 3339 or YYYY-MM-DD)")
			return
		}
	}

	b, err := h.service.Create(r.Context(), bill.CreateParams{
		UserID:   userID,
		Name:     req.Name,
		Amount:   amount,
		DueDate:  dueDate,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, bill.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error creating bill for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create bill")
		return
	}

	writeJSON(w, http.StatusCreated, billResponse(b, time.Now()))
}

// HandleMarkPaid settles a bill and cancels its reminders.
func (h *BillHandler) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	b, err := h.service.MarkPaid(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, bill.ErrBillNotFound):
			writeError(w, http.StatusNotFound, "Bill not found")
		case errors.Is(err, bill.ErrForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		case errors.Is(err, bill.ErrAlreadyPaid):
			writeError(w, http.StatusConflict, "Bill is already paid")
		default:
			log.Printf("Error marking bill paid: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to mark bill paid")
		}
		return
	}

	writeJSON(w, http.StatusOK, billResponse(b, time.Now()))
}

// HandleScheduleReminders re-arms the due-date reminders for a bill.
func (h *BillHandler) HandleScheduleReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	b, err := h.service.ScheduleReminders(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, bill.ErrBillNotFound):
			writeError(w, http.StatusNotFound, "Bill not found")
		case errors.Is(err, bill.ErrForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		case errors.Is(err, bill.ErrAlreadyPaid):
			writeError(w, http.StatusConflict, "Bill is already paid")
		default:
			log.Printf("Error scheduling reminders: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to schedule reminders")
		}
		return
	}

	writeJSON(w, http.StatusOK, billResponse(b, time.Now()))
}

// HandleListReminders returns the pending reminder events for a bill.
func (h *BillHandler) HandleListReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	b, err := h.service.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, bill.ErrBillNotFound):
			writeError(w, http.StatusNotFound, "Bill not found")
		case errors.Is(err, bill.ErrForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		default:
			log.Printf("Error loading bill: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to load bill")
		}
		return
	}

	events := []*reminder.ReminderEvent{}
	if h.reminders != nil {
		pending, err := h.reminders.ListForBill(r.Context(), b.ID)
		if err != nil {
			log.Printf("Error listing reminders for bill %s: %v", b.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to list reminders")
			return
		}
		events = append(events, pending...)
	}

	writeJSON(w, http.StatusOK, events)
}

// HandleDelete removes a bill.
func (h *BillHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		switch {
		case errors.Is(err, bill.ErrBillNotFound):
			writeError(w, http.StatusNotFound, "Bill not found")
		case errors.Is(err, bill.ErrForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		default:
			log.Printf("Error deleting bill: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete bill")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
