package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wayfarer-backend/internal/middleware"
	"wayfarer-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// CreateProfileRequest is the body for POST /api/v1/users
type CreateProfileRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	PhotoURL string `json:"photoURL"`
	Bio      string `json:"bio"`
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, "Invalid profile payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.users.CreateProfile(r.Context(), services.CreateProfileInput{
		ID:       req.ID,
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
		Bio:      req.Bio,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			respondError(w, err.Error(), http.StatusConflict)
			return
		}
		respondServerError(w, err, "Failed to create profile")
		return
	}

	respondJSON(w, user, http.StatusCreated)
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServerError(w, err, "Failed to fetch profile")
		return
	}
	respondJSON(w, user, http.StatusOK)
}

// UpdateProfileRequest is the body for PUT /api/v1/users/{id}
type UpdateProfileRequest struct {
	Name      string  `json:"name"`
	PhotoURL  string  `json:"photoURL"`
	Bio       string  `json:"bio"`
	PushToken *string `json:"push_token"`
}

// Update handles PUT /api/v1/users/{id}. Users may only edit their own
// profile.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if middleware.GetUserID(r.Context()) != id {
		respondError(w, "You can only edit your own profile", http.StatusForbidden)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), id, req.Name, req.PhotoURL, req.Bio)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServerError(w, err, "Failed to update profile")
		return
	}

	if req.PushToken != nil {
		if err := h.users.RegisterPushToken(r.Context(), id, req.PushToken); err != nil {
			respondServerError(w, err, "Failed to update push token")
			return
		}
		user.PushToken = req.PushToken
	}

	respondJSON(w, user, http.StatusOK)
}
