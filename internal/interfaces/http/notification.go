package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"contas/internal/domain/notification"
	"contas/internal/shared/middleware"
)

type NotificationHandler struct {
	service *notification.Service
}

func NewNotificationHandler(service *notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type RegisterDeviceRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"deviceType"`
}

// HandleRegisterDevice registers an FCM device token.
func (h *NotificationHandler) HandleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.service.RegisterDevice(r.Context(), notification.CreateDeviceTokenParams{
		UserID:     userID,
		Token:      req.Token,
		DeviceType: req.DeviceType,
	})
	if err != nil {
		switch {
		case errors.Is(err, notification.ErrInvalidToken), errors.Is(err, notification.ErrInvalidDeviceType):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Error registering device for user %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, "Failed to register device")
		}
		return
	}

	writeJSON(w, http.StatusCreated, token)
}

// HandleGetPreferences returns the user's per-category toggles.
func (h *NotificationHandler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		log.Printf("Error getting preferences for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

type UpdatePreferencesRequest struct {
	BillsEnabled        *bool `json:"bills_enabled"`
	BudgetsEnabled      *bool `json:"budgets_enabled"`
	GeneralEnabled      *bool `json:"general_enabled"`
	GoalsEnabled        *bool `json:"goals_enabled"`
	TransactionsEnabled *bool `json:"transactions_enabled"`
}

// HandleUpdatePreferences partially updates the per-category toggles.
func (h *NotificationHandler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), userID, notification.UpdatePreferenceParams{
		BillsEnabled:        req.BillsEnabled,
		BudgetsEnabled:      req.BudgetsEnabled,
		GeneralEnabled:      req.GeneralEnabled,
		GoalsEnabled:        req.GoalsEnabled,
		TransactionsEnabled: req.TransactionsEnabled,
	})
	if err != nil {
		log.Printf("Error updating preferences for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

type NotificationListResponse struct {
	Notifications []*notification.Notification `json:"notifications"`
	Total         int                          `json:"total"`
	Page          int                          `json:"page"`
	PerPage       int                          `json:"perPage"`
}

// HandleList returns the user's stored notifications, newest first.
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, perPage := 1, 20
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if perPageStr := r.URL.Query().Get("perPage"); perPageStr != "" {
		if parsed, err := strconv.Atoi(perPageStr); err == nil && parsed > 0 {
			perPage = parsed
		}
	}

	notifications, total, err := h.service.ListNotifications(r.Context(), userID, page, perPage)
	if err != nil {
		log.Printf("Error listing notifications for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []*notification.Notification{}
	}

	writeJSON(w, http.StatusOK, NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Page:          page,
		PerPage:       perPage,
	})
}

// HandleMarkOpened records that the user opened a notification.
func (h *NotificationHandler) HandleMarkOpened(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.MarkNotificationOpened(r.Context(), r.PathValue("id"), userID); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			writeError(w, http.StatusNotFound, "Notification not found")
			return
		}
		log.Printf("Error marking notification opened: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to mark notification opened")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
