package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	IsEmailVerified   bool       `json:"isEmailVerified"`
	VerificationOTP   *string    `json:"-"`
	OTPExpiry         *time.Time `json:"-"`
	Bio               string     `json:"bio"`
	ProfilePictureURL string     `json:"profilePictureUrl"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ProfileStats aggregates a user's activity for the profile page.
type ProfileStats struct {
	Posts          int `json:"posts"`
	LikesReceived  int `json:"likesReceived"`
	EventsUploaded int `json:"eventsUploaded"`
}
