package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"wayfarer-backend/internal/middleware"
	"wayfarer-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// TripHandler handles trip CRUD and search endpoints
type TripHandler struct {
	trips *services.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips *services.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// TripRequest is the body for creating or updating a trip
type TripRequest struct {
	UserID          string   `json:"userId"`
	Title           string   `json:"title" validate:"required"`
	StartLocation   string   `json:"startLocation" validate:"required"`
	Destination     string   `json:"destination" validate:"required"`
	StartDate       string   `json:"startDate" validate:"required"`
	Duration        int      `json:"duration" validate:"required,min=1"`
	MaxParticipants int      `json:"maxParticipants" validate:"required,min=1"`
	PreferredGender string   `json:"preferredGender" validate:"omitempty,oneof=male female any"`
	TransportMode   string   `json:"transportMode" validate:"omitempty,oneof=flight train car bus bike"`
	Description     string   `json:"description"`
	Budget          *float64 `json:"budget" validate:"omitempty,min=0"`
	Activities      string   `json:"activities"`
	ImageURL        string   `json:"imageUrl"`
}

func (req *TripRequest) toInput(ownerID string) (services.CreateTripInput, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return services.CreateTripInput{}, err
	}
	return services.CreateTripInput{
		OwnerID:         ownerID,
		Title:           req.Title,
		StartLocation:   req.StartLocation,
		Destination:     req.Destination,
		StartDate:       startDate,
		DurationDays:    req.Duration,
		MaxParticipants: req.MaxParticipants,
		PreferredGender: req.PreferredGender,
		TransportMode:   req.TransportMode,
		Description:     req.Description,
		Budget:          req.Budget,
		Activities:      req.Activities,
		ImageURL:        req.ImageURL,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// Create handles POST /api/v1/trips
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		respondError(w, "userId is required", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, "Invalid trip payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	input, err := req.toInput(req.UserID)
	if err != nil {
		respondError(w, "Invalid start date", http.StatusBadRequest)
		return
	}

	trip, err := h.trips.CreateTrip(r.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServerError(w, err, "Failed to create trip")
		return
	}

	log.Info().
		Str("trip_id", trip.ID).
		Str("owner_id", trip.OwnerID).
		Str("destination", trip.Destination).
		Msg("Trip created")

	respondJSON(w, trip, http.StatusCreated)
}

// List handles GET /api/v1/trips
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.ListTrips(r.Context())
	if err != nil {
		respondServerError(w, err, "Failed to fetch trips")
		return
	}
	respondJSON(w, trips, http.StatusOK)
}

// Get handles GET /api/v1/trips/{id}
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	trip, err := h.trips.GetTrip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrTripNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServerError(w, err, "Failed to fetch trip")
		return
	}
	respondJSON(w, trip, http.StatusOK)
}

// ListByUser handles GET /api/v1/trips/user/{uid}
func (h *TripHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.ListTripsByUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		respondServerError(w, err, "Failed to fetch user trips")
		return
	}
	respondJSON(w, trips, http.StatusOK)
}

// Search handles GET /api/v1/trips/search
func (h *TripHandler) Search(w http.ResponseWriter, r *http.Request) {
	destination := r.URL.Query().Get("destination")
	startDate := r.URL.Query().Get("date")

	trips, err := h.trips.SearchTrips(r.Context(), destination, startDate)
	if err != nil {
		respondServerError(w, err, "Failed to search trips")
		return
	}
	respondJSON(w, trips, http.StatusOK)
}

// Update handles PUT /api/v1/trips/{id}
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, "Invalid trip payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	input, err := req.toInput(userID)
	if err != nil {
		respondError(w, "Invalid start date", http.StatusBadRequest)
		return
	}

	trip, err := h.trips.UpdateTrip(r.Context(), tripID, userID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTripNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotOwner):
			respondError(w, "Only the trip creator can edit this trip", http.StatusForbidden)
		default:
			respondServerError(w, err, "Failed to update trip")
		}
		return
	}

	respondJSON(w, trip, http.StatusOK)
}

// Delete handles DELETE /api/v1/trips/{id}
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	err := h.trips.DeleteTrip(r.Context(), tripID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTripNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotOwner):
			respondError(w, "Only the trip creator can delete this trip", http.StatusForbidden)
		default:
			respondServerError(w, err, "Failed to delete trip")
		}
		return
	}

	log.Info().Str("trip_id", tripID).Str("actor_id", userID).Msg("Trip deleted")

	respondJSON(w, MessageResponse{Message: "Trip deleted successfully"}, http.StatusOK)
}
