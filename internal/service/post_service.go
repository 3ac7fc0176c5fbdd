package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sportsclub/backend/internal/domain"
	"github.com/sportsclub/backend/internal/repository"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post not liked yet")
)

type PostService struct {
	postRepo repository.PostRepository
	notifier FeedNotifier
}

func NewPostService(postRepo repository.PostRepository, notifier FeedNotifier) *PostService {
	return &PostService{postRepo: postRepo, notifier: notifier}
}

type CreatePostInput struct {
	MediaURL  string
	Title     string
	MediaType string
}

// LikeStatus lets clients reconcile optimistic UI updates.
type LikeStatus struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

func (s *PostService) Create(ctx context.Context, userID uuid.UUID, input CreatePostInput) (*domain.Post, error) {
	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    userID,
		MediaURL:  input.MediaURL,
		Title:     input.Title,
		MediaType: input.MediaType,
		LikedBy:   []uuid.UUID{},
		CreatedAt: time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyPostCreated(post)
	}

	return post, nil
}

func (s *PostService) ListAll(ctx context.Context) ([]domain.Post, error) {
	return s.postRepo.ListAll(ctx)
}

func (s *PostService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Post, error) {
	return s.postRepo.ListByUser(ctx, userID)
}

// Like adds userID to the post's liked set and bumps the counter, both in
// one store operation. Liking twice fails instead of double-counting.
func (s *PostService) Like(ctx context.Context, postID, userID uuid.UUID) (*LikeStatus, error) {
	res, err := s.postRepo.LikeToggle(ctx, postID, userID, true)
	if err != nil {
		return nil, fmt.Errorf("liking post: %w", err)
	}
	if res == nil {
		return nil, ErrPostNotFound
	}
	if !res.Applied {
		return nil, ErrAlreadyLiked
	}

	if s.notifier != nil {
		s.notifier.NotifyPostLiked(postID, res.Likes)
	}

	return &LikeStatus{Likes: res.Likes, Liked: true}, nil
}

func (s *PostService) Unlike(ctx context.Context, postID, userID uuid.UUID) (*LikeStatus, error) {
	res, err := s.postRepo.LikeToggle(ctx, postID, userID, false)
	if err != nil {
		return nil, fmt.Errorf("unliking post: %w", err)
	}
	if res == nil {
		return nil, ErrPostNotFound
	}
	if !res.Applied {
		return nil, ErrNotLiked
	}

	if s.notifier != nil {
		s.notifier.NotifyPostLiked(postID, res.Likes)
	}

	return &LikeStatus{Likes: res.Likes, Liked: false}, nil
}
