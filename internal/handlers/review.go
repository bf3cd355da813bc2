package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wayfarer-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// ReviewHandler handles traveler review endpoints
type ReviewHandler struct {
	reviews *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// AddReviewRequest is the body for POST /api/v1/reviews
type AddReviewRequest struct {
	Reviewer string `json:"reviewer" validate:"required"`
	Reviewee string `json:"reviewee" validate:"required"`
	TripID   string `json:"tripId" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"required,max=500"`
}

// Add handles POST /api/v1/reviews
func (h *ReviewHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, "Invalid review payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	review, err := h.reviews.Add(r.Context(), req.TripID, req.Reviewer, req.Reviewee, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTripNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrSelfReview),
			errors.Is(err, services.ErrNotTripmates):
			respondError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrDuplicateReview):
			respondError(w, err.Error(), http.StatusConflict)
		default:
			respondServerError(w, err, "Failed to create review")
		}
		return
	}

	respondJSON(w, review, http.StatusCreated)
}

// ForUser handles GET /api/v1/reviews/user/{userId}
func (h *ReviewHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.reviews.ForUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondServerError(w, err, "Failed to fetch reviews")
		return
	}
	respondJSON(w, result, http.StatusOK)
}
