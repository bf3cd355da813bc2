package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wayfarer-backend/internal/models"
	"wayfarer-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultJoinMessage = "I'd like to join your trip!"

// JoinRequestService mediates the join-request workflow: submission,
// the owner's accept/reject decision, and participant removal.
type JoinRequestService struct {
	trips    TripStore
	requests JoinRequestStore
	notifier Notifier
}

// NewJoinRequestService creates a new join request service
func NewJoinRequestService(trips TripStore, requests JoinRequestStore, notifier Notifier) *JoinRequestService {
	return &JoinRequestService{
		trips:    trips,
		requests: requests,
		notifier: notifier,
	}
}

// SubmitInput carries one user's join submission.
type SubmitInput struct {
	UserID   string
	Name     string
	PhotoURL string
	Message  string
}

// Submit handles a user's request to join a trip. If a rejected or
// stale-accepted request already exists for the (trip, user) pair it is
// reopened in place; otherwise a fresh pending request is created.
// Returns the request ID.
func (s *JoinRequestService) Submit(ctx context.Context, tripID string, in SubmitInput) (string, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrTripNotFound
		}
		return "", fmt.Errorf("failed to load trip: %w", err)
	}

	isParticipant, err := s.trips.IsParticipant(ctx, tripID, in.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to check participant: %w", err)
	}
	if isParticipant {
		return "", ErrAlreadyJoined
	}

	count, err := s.trips.CountParticipants(ctx, tripID)
	if err != nil {
		return "", fmt.Errorf("failed to count participants: %w", err)
	}
	if count >= trip.MaxParticipants {
		return "", ErrTripFull
	}

	message := in.Message
	if message == "" {
		message = defaultJoinMessage
	}

	existing, err := s.requests.GetByTripAndUser(ctx, tripID, in.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("failed to look up join request: %w", err)
	}

	var requestID string
	if existing != nil {
		// The participant check above already came back false, but
		// re-read it for the stale-accepted branch so the state
		// machine sees the freshest membership.
		still, err := s.trips.IsParticipant(ctx, tripID, in.UserID)
		if err != nil {
			return "", fmt.Errorf("failed to re-check participant: %w", err)
		}
		if _, err := nextStatus(existing.Status, eventSubmit, still); err != nil {
			return "", err
		}
		if err := s.requests.Reopen(ctx, existing.ID, message, in.Name, in.PhotoURL); err != nil {
			return "", fmt.Errorf("failed to reopen join request: %w", err)
		}
		requestID = existing.ID
	} else {
		req := &models.JoinRequest{
			ID:        uuid.New().String(),
			TripID:    tripID,
			UserID:    in.UserID,
			UserName:  in.Name,
			UserPhoto: in.PhotoURL,
			Message:   message,
			Status:    models.StatusPending,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.requests.Create(ctx, req); err != nil {
			// A concurrent submission for the same pair loses the race
			// on the unique index; surface it as already pending.
			if errors.Is(err, repository.ErrDuplicate) {
				return "", ErrRequestPending
			}
			return "", fmt.Errorf("failed to create join request: %w", err)
		}
		requestID = req.ID
	}

	if trip.OwnerID != in.UserID {
		s.notify(ctx, &models.Notification{
			RecipientID: trip.OwnerID,
			SenderID:    in.UserID,
			SenderName:  in.Name,
			SenderPhoto: in.PhotoURL,
			Type:        models.NotifJoinRequest,
			TripID:      trip.ID,
			RelatedID:   requestID,
			Message:     fmt.Sprintf("%s requested to join %q", in.Name, trip.Title),
		})
	}

	return requestID, nil
}

// Decide records the trip owner's accept/reject decision on a pending
// request. On accept, the requester is appended to the participant list
// with the capacity re-checked atomically; an over-capacity accept
// fails with ErrTripFull and leaves the request pending.
func (s *JoinRequestService) Decide(ctx context.Context, requestID, actorID string, decision models.RequestStatus) error {
	ev := eventAccept
	switch decision {
	case models.StatusAccepted:
	case models.StatusRejected:
		ev = eventReject
	default:
		return ErrInvalidStatus
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("failed to load join request: %w", err)
	}

	next, err := nextStatus(req.Status, ev, false)
	if err != nil {
		return err
	}

	trip, err := s.trips.GetByID(ctx, req.TripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTripNotFound
		}
		return fmt.Errorf("failed to load trip: %w", err)
	}
	if trip.OwnerID != actorID {
		return ErrNotOwner
	}

	if next == models.StatusAccepted {
		added, err := s.trips.AddParticipantIfCapacity(ctx, trip.ID, models.Participant{
			UserID:   req.UserID,
			Name:     req.UserName,
			PhotoURL: req.UserPhoto,
			JoinedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to add participant: %w", err)
		}
		if !added {
			return ErrTripFull
		}
	}

	if err := s.requests.SetStatus(ctx, req.ID, next); err != nil {
		return fmt.Errorf("failed to update join request: %w", err)
	}

	notifType := models.NotifRequestAccepted
	if next == models.StatusRejected {
		notifType = models.NotifRequestDeclined
	}
	s.notify(ctx, &models.Notification{
		RecipientID: req.UserID,
		SenderID:    trip.OwnerID,
		SenderName:  "System",
		Type:        notifType,
		TripID:      trip.ID,
		RelatedID:   req.ID,
		Message:     fmt.Sprintf("Your request to join %q was %s", trip.Title, next),
	})

	return nil
}

// RequestDetails bundles a request with a summary of its trip for the
// owner's decision screen.
type RequestDetails struct {
	Request *models.JoinRequest `json:"request"`
	Trip    *models.Trip        `json:"trip"`
}

// Details loads a request and its trip. Only the trip owner and the
// requester may view.
func (s *JoinRequestService) Details(ctx context.Context, requestID, actorID string) (*RequestDetails, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load join request: %w", err)
	}

	trip, err := s.trips.GetByID(ctx, req.TripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}

	if trip.OwnerID != actorID && req.UserID != actorID {
		return nil, ErrNotOwner
	}

	return &RequestDetails{Request: req, Trip: trip}, nil
}

// StatusResult is the outcome of a request-status query. Status is nil
// when no request exists for the pair.
type StatusResult struct {
	Status    *models.RequestStatus `json:"status"`
	RequestID string                `json:"requestId,omitempty"`
}

// Status reports the current state of the (trip, user) join request.
// Read-only; an absent request is not an error.
func (s *JoinRequestService) Status(ctx context.Context, tripID, userID string) (*StatusResult, error) {
	if userID == "" {
		return &StatusResult{}, nil
	}
	req, err := s.requests.GetByTripAndUser(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &StatusResult{}, nil
		}
		return nil, fmt.Errorf("failed to look up join request: %w", err)
	}
	return &StatusResult{Status: &req.Status, RequestID: req.ID}, nil
}

// RemoveParticipant removes an accepted participant from a trip and
// deletes their join request so they can request again later. Owner
// action only; the owner cannot remove themselves.
func (s *JoinRequestService) RemoveParticipant(ctx context.Context, tripID, participantID, actorID string) (*models.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}
	if trip.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	if participantID == trip.OwnerID {
		return nil, ErrCannotRemoveOwner
	}

	removed, err := s.trips.RemoveParticipant(ctx, tripID, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove participant: %w", err)
	}
	if !removed {
		return nil, ErrParticipantNotFound
	}

	if err := s.requests.DeleteByTripAndUser(ctx, tripID, participantID); err != nil {
		// The participant is already gone; a leftover request row only
		// blocks a future re-request, so log and continue.
		log.Error().Err(err).
			Str("trip_id", tripID).
			Str("participant_id", participantID).
			Msg("Failed to delete join request for removed participant")
	}

	s.notify(ctx, &models.Notification{
		RecipientID: participantID,
		SenderID:    trip.OwnerID,
		SenderName:  "System",
		Type:        models.NotifParticipantRemoved,
		TripID:      trip.ID,
		Message:     fmt.Sprintf("You have been removed from the trip %q", trip.Title),
	})

	return s.trips.GetByID(ctx, tripID)
}

// Leave removes the caller from a trip's participant list, deleting
// their join request as well so a later re-request starts fresh.
func (s *JoinRequestService) Leave(ctx context.Context, tripID, userID string) (*models.Trip, error) {
	_, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}

	if _, err := s.trips.RemoveParticipant(ctx, tripID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove participant: %w", err)
	}
	if err := s.requests.DeleteByTripAndUser(ctx, tripID, userID); err != nil {
		log.Error().Err(err).
			Str("trip_id", tripID).
			Str("user_id", userID).
			Msg("Failed to delete join request for leaving participant")
	}

	return s.trips.GetByID(ctx, tripID)
}

// notify dispatches a notification best-effort. Failures are logged and
// never surfaced to the workflow caller.
func (s *JoinRequestService) notify(ctx context.Context, n *models.Notification) {
	if err := s.notifier.Dispatch(ctx, n); err != nil {
		log.Error().Err(err).
			Str("recipient", n.RecipientID).
			Str("type", string(n.Type)).
			Msg("Failed to dispatch notification")
	}
}
