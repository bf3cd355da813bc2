package services

import (
	"context"
	"errors"
	"time"

	"wayfarer-backend/internal/models"
	"wayfarer-backend/internal/repository"

	"github.com/google/uuid"
)

// ErrEmailTaken is returned when a profile already exists for an email.
var ErrEmailTaken = errors.New("A profile with this email already exists")

// UserService handles user profile business logic. The authentication
// handshake itself lives in an external identity provider; this service
// only stores the profile the provider hands us.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateProfileInput carries a new profile from the identity provider.
type CreateProfileInput struct {
	ID       string
	Name     string
	Email    string
	PhotoURL string
	Bio      string
}

// CreateProfile stores a user profile. The ID comes from the identity
// provider so it matches the x-user-id header on later requests; a
// missing ID gets a generated one.
func (s *UserService) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.User, error) {
	if in.ID == "" {
		in.ID = uuid.New().String()
	}

	user := &models.User{
		ID:        in.ID,
		Name:      in.Name,
		Email:     in.Email,
		PhotoURL:  in.PhotoURL,
		Bio:       in.Bio,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// GetProfile retrieves a user profile
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile updates a user's own name, photo and bio
func (s *UserService) UpdateProfile(ctx context.Context, id, name, photoURL, bio string) (*models.User, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if photoURL != "" {
		user.PhotoURL = photoURL
	}
	user.Bio = bio

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterPushToken stores the device token APNs pushes go to
func (s *UserService) RegisterPushToken(ctx context.Context, userID string, token *string) error {
	return s.userRepo.UpdatePushToken(ctx, userID, token)
}
