package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wayfarer-backend/internal/middleware"
	"wayfarer-backend/internal/services"
)

// NotificationHandler handles the polled notification feed
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	feed, err := h.notifications.List(r.Context(), userID)
	if err != nil {
		respondServerError(w, err, "Failed to fetch notifications")
		return
	}

	respondJSON(w, feed, http.StatusOK)
}

// MarkReadRequest is the body for PUT /api/v1/notifications
type MarkReadRequest struct {
	NotificationID string `json:"notificationId"`
	MarkAll        bool   `json:"markAll"`
}

// MarkRead handles PUT /api/v1/notifications
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	switch {
	case req.MarkAll:
		err = h.notifications.MarkAllRead(r.Context(), userID)
	case req.NotificationID != "":
		err = h.notifications.MarkRead(r.Context(), userID, req.NotificationID)
	default:
		respondError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrNotificationMissing) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServerError(w, err, "Failed to update notifications")
		return
	}

	respondJSON(w, MessageResponse{Message: "Notifications updated"}, http.StatusOK)
}
