package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"wayfarer-backend/internal/models"
	"wayfarer-backend/internal/repository"

	"github.com/google/uuid"
)

// ReviewService handles traveler-to-traveler reviews after shared trips
type ReviewService struct {
	reviews ReviewStore
	trips   TripStore
}

// NewReviewService creates a new review service
func NewReviewService(reviews ReviewStore, trips TripStore) *ReviewService {
	return &ReviewService{reviews: reviews, trips: trips}
}

// Add records one review. The reviewer and reviewee must differ, both
// must be members of the trip, and the pair may be reviewed once per
// trip.
func (s *ReviewService) Add(ctx context.Context, tripID, reviewerID, revieweeID string, rating int, comment string) (*models.Review, error) {
	if reviewerID == revieweeID {
		return nil, ErrSelfReview
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	for _, userID := range []string{reviewerID, revieweeID} {
		member, err := s.trips.IsMember(ctx, tripID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if !member {
			return nil, ErrNotTripmates
		}
	}

	review := &models.Review{
		ID:         uuid.New().String(),
		TripID:     tripID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	return review, nil
}

// UserReviews bundles a user's reviews with their aggregate rating.
type UserReviews struct {
	Reviews       []*models.Review `json:"reviews"`
	AverageRating float64          `json:"averageRating"`
	TotalReviews  int              `json:"totalReviews"`
}

// ForUser retrieves every review of a user plus the average rating,
// rounded to one decimal place.
func (s *ReviewService) ForUser(ctx context.Context, revieweeID string) (*UserReviews, error) {
	reviews, err := s.reviews.ListByReviewee(ctx, revieweeID)
	if err != nil {
		return nil, err
	}
	avg, total, err := s.reviews.AverageForReviewee(ctx, revieweeID)
	if err != nil {
		return nil, err
	}
	return &UserReviews{
		Reviews:       reviews,
		AverageRating: math.Round(avg*10) / 10,
		TotalReviews:  total,
	}, nil
}
