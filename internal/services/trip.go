package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wayfarer-backend/internal/models"
	"wayfarer-backend/internal/repository"

	"github.com/google/uuid"
)

// TripService handles trip CRUD and search
type TripService struct {
	tripRepo *repository.TripRepository
	userRepo *repository.UserRepository
}

// NewTripService creates a new trip service
func NewTripService(tripRepo *repository.TripRepository, userRepo *repository.UserRepository) *TripService {
	return &TripService{
		tripRepo: tripRepo,
		userRepo: userRepo,
	}
}

// CreateTripInput carries a validated trip creation payload.
type CreateTripInput struct {
	OwnerID         string
	Title           string
	StartLocation   string
	Destination     string
	StartDate       time.Time
	DurationDays    int
	MaxParticipants int
	PreferredGender string
	TransportMode   string
	Description     string
	Budget          *float64
	Activities      string
	ImageURL        string
}

// CreateTrip creates a trip and seeds the owner as its first
// participant, so the participant list always includes the creator.
func (s *TripService) CreateTrip(ctx context.Context, in CreateTripInput) (*models.Trip, error) {
	owner, err := s.userRepo.GetByID(ctx, in.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}

	if in.PreferredGender == "" {
		in.PreferredGender = "any"
	}

	trip := &models.Trip{
		ID:              uuid.New().String(),
		OwnerID:         in.OwnerID,
		Title:           in.Title,
		StartLocation:   in.StartLocation,
		Destination:     in.Destination,
		StartDate:       in.StartDate,
		DurationDays:    in.DurationDays,
		MaxParticipants: in.MaxParticipants,
		PreferredGender: in.PreferredGender,
		TransportMode:   in.TransportMode,
		Description:     in.Description,
		Budget:          in.Budget,
		Activities:      in.Activities,
		ImageURL:        in.ImageURL,
		CreatedAt:       time.Now(),
	}
	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	if err := s.tripRepo.AddParticipant(ctx, trip.ID, models.Participant{
		UserID:   owner.ID,
		Name:     owner.Name,
		PhotoURL: owner.PhotoURL,
		JoinedAt: trip.CreatedAt,
	}); err != nil {
		return nil, err
	}

	return s.tripRepo.GetByID(ctx, trip.ID)
}

// GetTrip retrieves a trip with its participants
func (s *TripService) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

// ListTrips retrieves all trips, newest first
func (s *TripService) ListTrips(ctx context.Context) ([]*models.Trip, error) {
	return s.tripRepo.List(ctx)
}

// ListTripsByUser retrieves trips the user owns or participates in
func (s *TripService) ListTripsByUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	return s.tripRepo.ListByUser(ctx, userID)
}

// SearchTrips retrieves trips by destination substring and optional
// earliest start date (RFC 3339 or YYYY-MM-DD)
func (s *TripService) SearchTrips(ctx context.Context, destination, startDate string) ([]*models.Trip, error) {
	var date *string
	if startDate != "" {
		date = &startDate
	}
	return s.tripRepo.Search(ctx, destination, date)
}

// UpdateTrip updates a trip's editable fields. Owner action only.
func (s *TripService) UpdateTrip(ctx context.Context, id, actorID string, in CreateTripInput) (*models.Trip, error) {
	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	trip.Title = in.Title
	trip.StartLocation = in.StartLocation
	trip.Destination = in.Destination
	trip.StartDate = in.StartDate
	trip.DurationDays = in.DurationDays
	trip.MaxParticipants = in.MaxParticipants
	if in.PreferredGender != "" {
		trip.PreferredGender = in.PreferredGender
	}
	trip.TransportMode = in.TransportMode
	trip.Description = in.Description
	trip.Budget = in.Budget
	trip.Activities = in.Activities
	if in.ImageURL != "" {
		trip.ImageURL = in.ImageURL
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}
	return s.tripRepo.GetByID(ctx, id)
}

// DeleteTrip deletes a trip and everything hanging off it. Owner action
// only.
func (s *TripService) DeleteTrip(ctx context.Context, id, actorID string) error {
	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return err
	}
	if trip.OwnerID != actorID {
		return ErrNotOwner
	}
	return s.tripRepo.Delete(ctx, id)
}
