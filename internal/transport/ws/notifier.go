package ws

import (
	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/sportsclub/backend/internal/domain"
)

// FeedNotifier implements service.FeedNotifier using the feed Hub.
type FeedNotifier struct {
	hub    *Hub
	logger *zap.Logger
}

func NewFeedNotifier(hub *Hub, logger *zap.Logger) *FeedNotifier {
	return &FeedNotifier{hub: hub, logger: logger}
}

func (n *FeedNotifier) NotifyPostCreated(post *domain.Post) {
	evt, err := NewEvent(EventTypePostCreated, PostPayload{Post: *post})
	if err != nil {
		n.logger.Error("feed notifier marshal error", zap.Error(err))
		return
	}
	n.hub.Broadcast(evt)
}

func (n *FeedNotifier) NotifyPostLiked(postID uuid.UUID, likes int) {
	evt, err := NewEvent(EventTypePostLiked, PostLikedPayload{ID: postID, Likes: likes})
	if err != nil {
		n.logger.Error("feed notifier marshal error", zap.Error(err))
		return
	}
	n.hub.Broadcast(evt)
}

func (n *FeedNotifier) NotifyEventCreated(event *domain.Event) {
	evt, err := NewEvent(EventTypeEventCreated, EventPayload{Event: *event})
	if err != nil {
		n.logger.Error("feed notifier marshal error", zap.Error(err))
		return
	}
	n.hub.Broadcast(evt)
}
