package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wayfarer-backend/internal/middleware"
	"wayfarer-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// ChatHandler handles the per-trip chat feed
type ChatHandler struct {
	chat *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Inbox handles GET /api/v1/chats
func (h *ChatHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	summaries, err := h.chat.Inbox(r.Context(), userID)
	if err != nil {
		respondServerError(w, err, "Failed to fetch chats")
		return
	}

	respondJSON(w, summaries, http.StatusOK)
}

// List handles GET /api/v1/trips/{id}/chat
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	messages, err := h.chat.List(r.Context(), tripID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotParticipant) {
			respondError(w, "Only trip participants can access the chat", http.StatusForbidden)
			return
		}
		respondServerError(w, err, "Failed to fetch chat messages")
		return
	}

	respondJSON(w, messages, http.StatusOK)
}

// SendMessageRequest is the body for POST /api/v1/trips/{id}/chat
type SendMessageRequest struct {
	SenderName  string `json:"senderName"`
	SenderPhoto string `json:"senderPhoto"`
	Message     string `json:"message"`
}

// Send handles POST /api/v1/trips/{id}/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.chat.Send(r.Context(), tripID, userID, req.SenderName, req.SenderPhoto, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotParticipant):
			respondError(w, "Only trip participants can send messages", http.StatusForbidden)
		case errors.Is(err, services.ErrEmptyMessage):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondServerError(w, err, "Failed to send chat message")
		}
		return
	}

	respondJSON(w, msg, http.StatusCreated)
}
