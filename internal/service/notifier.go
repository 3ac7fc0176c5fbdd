package service

import (
	"github.com/google/uuid"

	"github.com/sportsclub/backend/internal/domain"
)

// FeedNotifier pushes activity to connected feed clients. Implemented by
// the ws package; calls must not block request handling.
type FeedNotifier interface {
	NotifyPostCreated(post *domain.Post)
	NotifyPostLiked(postID uuid.UUID, likes int)
	NotifyEventCreated(event *domain.Event)
}
