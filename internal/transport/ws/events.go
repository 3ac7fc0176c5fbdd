package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/sportsclub/backend/internal/domain"
)

// Event types - Client → Server
const (
	EventTypePing = "ping"
)

// Event types - Server → Client
const (
	EventTypePostCreated  = "post.created"
	EventTypePostLiked    = "post.liked"
	EventTypeEventCreated = "event.created"
	EventTypePong         = "pong"
	EventTypeError        = "error"
)

// Event is the base envelope for all feed messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

type PostPayload struct {
	domain.Post
}

type PostLikedPayload struct {
	ID    uuid.UUID `json:"id"`
	Likes int       `json:"likes"`
}

type EventPayload struct {
	domain.Event
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
