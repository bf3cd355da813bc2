package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"wayfarer-backend/internal/models"
	"wayfarer-backend/internal/repository"

	"github.com/google/uuid"
)

// CommentService handles public comments on trip pages
type CommentService struct {
	comments *repository.CommentRepository
	trips    TripStore
}

// NewCommentService creates a new comment service
func NewCommentService(comments *repository.CommentRepository, trips TripStore) *CommentService {
	return &CommentService{comments: comments, trips: trips}
}

// List retrieves a trip's comments, oldest first
func (s *CommentService) List(ctx context.Context, tripID string) ([]*models.Comment, error) {
	return s.comments.ListByTrip(ctx, tripID)
}

// Add posts a comment on a trip page. Comments are public, so there is
// no membership gate, but the trip must exist and the text be non-empty.
func (s *CommentService) Add(ctx context.Context, tripID, userID, userName, userPhoto, text string) (*models.Comment, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		TripID:    tripID,
		UserID:    userID,
		UserName:  userName,
		UserPhoto: userPhoto,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
