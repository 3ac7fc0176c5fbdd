package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sportsclub/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Post, error)

	// LikeToggle applies a like (like=true) or unlike (like=false) as a
	// single conditional update. Returns nil when the post does not exist;
	// Applied is false when the toggle would not change state.
	LikeToggle(ctx context.Context, postID, userID uuid.UUID, like bool) (*domain.LikeResult, error)

	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	TotalLikesByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListAll(ctx context.Context) ([]domain.Event, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Event, error)

	// TrackView records a first view by userID and returns the resulting
	// view count. Re-viewing is a no-op; viewCount is still returned.
	// Returns found=false when the event does not exist.
	TrackView(ctx context.Context, eventID, userID uuid.UUID) (viewCount int, found bool, err error)

	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
