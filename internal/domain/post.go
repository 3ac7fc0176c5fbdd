package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	MediaURL  string      `json:"mediaUrl"`
	Title     string      `json:"title"`
	MediaType string      `json:"mediaType"`
	Likes     int         `json:"likes"`
	LikedBy   []uuid.UUID `json:"likedBy"`
	CreatedAt time.Time   `json:"createdAt"`

	// Joined from users for feed rendering.
	UserName    string `json:"userName,omitempty"`
	UserPicture string `json:"userPicture,omitempty"`
}

// LikeResult is the outcome of an atomic like/unlike on a post.
// Applied is false when the toggle was a no-op (already liked / not liked).
type LikeResult struct {
	Likes   int
	Liked   bool
	Applied bool
}
