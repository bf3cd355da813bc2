package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wayfarer-backend/internal/middleware"
	"wayfarer-backend/internal/models"
	"wayfarer-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// JoinRequestHandler handles the join-request workflow endpoints
type JoinRequestHandler struct {
	requests *services.JoinRequestService
}

// NewJoinRequestHandler creates a new join request handler
func NewJoinRequestHandler(requests *services.JoinRequestService) *JoinRequestHandler {
	return &JoinRequestHandler{requests: requests}
}

// JoinTripRequest is the body for POST /api/v1/trips/{id}/join
type JoinTripRequest struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
	Message  string `json:"message"`
}

// JoinTrip handles POST /api/v1/trips/{id}/join
func (h *JoinRequestHandler) JoinTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	var req JoinTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Name == "" {
		respondError(w, "userId and name are required", http.StatusBadRequest)
		return
	}

	requestID, err := h.requests.Submit(r.Context(), tripID, services.SubmitInput{
		UserID:   req.UserID,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Message:  req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTripNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrAlreadyJoined),
			errors.Is(err, services.ErrTripFull),
			errors.Is(err, services.ErrRequestPending),
			errors.Is(err, services.ErrAlreadyMember):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondServerError(w, err, "Failed to submit join request")
		}
		return
	}

	log.Info().
		Str("trip_id", tripID).
		Str("user_id", req.UserID).
		Str("request_id", requestID).
		Msg("Join request submitted")

	respondJSON(w, map[string]string{
		"message":   "Request sent successfully",
		"requestId": requestID,
	}, http.StatusOK)
}

// DecideRequest is the body for PUT /api/v1/requests/{id}
type DecideRequest struct {
	Status string `json:"status"`
}

// Decide handles PUT /api/v1/requests/{id}
func (h *JoinRequestHandler) Decide(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	decision := models.RequestStatus(req.Status)
	err := h.requests.Decide(r.Context(), requestID, userID, decision)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus),
			errors.Is(err, services.ErrRequestProcessed),
			errors.Is(err, services.ErrTripFull):
			respondError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrRequestNotFound),
			errors.Is(err, services.ErrTripNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotOwner):
			respondError(w, err.Error(), http.StatusForbidden)
		default:
			respondServerError(w, err, "Failed to decide join request")
		}
		return
	}

	log.Info().
		Str("request_id", requestID).
		Str("actor_id", userID).
		Str("decision", req.Status).
		Msg("Join request decided")

	respondJSON(w, MessageResponse{Message: "Request " + req.Status}, http.StatusOK)
}

// Details handles GET /api/v1/requests/{id}
func (h *JoinRequestHandler) Details(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	details, err := h.requests.Details(r.Context(), requestID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound),
			errors.Is(err, services.ErrTripNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotOwner):
			respondError(w, err.Error(), http.StatusForbidden)
		default:
			respondServerError(w, err, "Failed to fetch join request")
		}
		return
	}

	respondJSON(w, details, http.StatusOK)
}

// Status handles GET /api/v1/trips/{id}/request-status
func (h *JoinRequestHandler) Status(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("userId")

	result, err := h.requests.Status(r.Context(), tripID, userID)
	if err != nil {
		respondServerError(w, err, "Failed to check request status")
		return
	}

	respondJSON(w, result, http.StatusOK)
}

// RemoveParticipant handles DELETE /api/v1/trips/{id}/participants/{participantId}
func (h *JoinRequestHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	participantID := chi.URLParam(r, "participantId")
	userID := middleware.GetUserID(r.Context())

	trip, err := h.requests.RemoveParticipant(r.Context(), tripID, participantID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTripNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrParticipantNotFound):
			respondError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotOwner):
			respondError(w, "Only the trip creator can remove participants", http.StatusForbidden)
		case errors.Is(err, services.ErrCannotRemoveOwner):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondServerError(w, err, "Failed to remove participant")
		}
		return
	}

	log.Info().
		Str("trip_id", tripID).
		Str("participant_id", participantID).
		Str("actor_id", userID).
		Msg("Participant removed")

	respondJSON(w, map[string]interface{}{
		"message": "Participant removed successfully",
		"trip":    trip,
	}, http.StatusOK)
}

// LeaveTripRequest is the body for POST /api/v1/trips/{id}/leave
type LeaveTripRequest struct {
	UserID string `json:"userId"`
}

// Leave handles POST /api/v1/trips/{id}/leave
func (h *JoinRequestHandler) Leave(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")

	var req LeaveTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondError(w, "userId is required", http.StatusBadRequest)
		return
	}

	trip, err := h.requests.Leave(r.Context(), tripID, req.UserID)
	if err != nil {
		if errors.Is(err, services.ErrTripNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServerError(w, err, "Failed to leave trip")
		return
	}

	respondJSON(w, trip, http.StatusOK)
}
