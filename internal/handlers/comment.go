package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wayfarer-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// CommentHandler handles trip page comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List handles GET /api/v1/trips/{id}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServerError(w, err, "Failed to fetch comments")
		return
	}
	respondJSON(w, comments, http.StatusOK)
}

// AddCommentRequest is the body for POST /api/v1/trips/{id}/comments
type AddCommentRequest struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto"`
	Text      string `json:"text"`
}

// Add handles POST /api/v1/trips/{id}/comments
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.UserName == "" {
		respondError(w, "userId and userName are required", http.StatusBadRequest)
		return
	}

	comment, err := h.comments.Add(r.Context(), tripID, req.UserID, req.UserName, req.UserPhoto, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTripNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrEmptyMessage):
			respondError(w, "Comment cannot be empty", http.StatusBadRequest)
		default:
			respondServerError(w, err, "Failed to add comment")
		}
		return
	}

	respondJSON(w, comment, http.StatusCreated)
}
