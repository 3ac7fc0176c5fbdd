package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sportsclub/backend/internal/domain"
	"github.com/sportsclub/backend/internal/repository"
)

type ProfileService struct {
	userRepo  repository.UserRepository
	postRepo  repository.PostRepository
	eventRepo repository.EventRepository
}

func NewProfileService(userRepo repository.UserRepository, postRepo repository.PostRepository, eventRepo repository.EventRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, postRepo: postRepo, eventRepo: eventRepo}
}

type UpdateProfileInput struct {
	Name              *string `json:"name"`
	Bio               *string `json:"bio"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Bio != nil && *input.Bio != "" {
		user.Bio = *input.Bio
	}
	if input.ProfilePictureURL != nil && *input.ProfilePictureURL != "" {
		user.ProfilePictureURL = *input.ProfilePictureURL
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	return user, nil
}

func (s *ProfileService) SetProfilePicture(ctx context.Context, userID uuid.UUID, url string) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.ProfilePictureURL = url
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating profile picture: %w", err)
	}

	return user, nil
}

// Stats aggregates the numbers the profile page shows next to the avatar.
func (s *ProfileService) Stats(ctx context.Context, userID uuid.UUID) (*domain.ProfileStats, error) {
	posts, err := s.postRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting posts: %w", err)
	}

	likes, err := s.postRepo.TotalLikesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("summing likes: %w", err)
	}

	events, err := s.eventRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}

	return &domain.ProfileStats{
		Posts:          posts,
		LikesReceived:  likes,
		EventsUploaded: events,
	}, nil
}
