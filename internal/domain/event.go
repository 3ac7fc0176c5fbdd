package domain

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	SportName  string            `json:"sportName"`
	Date       time.Time         `json:"date"`
	Place      string            `json:"place"`
	Rules      string            `json:"rules"`
	Poster     *string           `json:"poster,omitempty"`
	Prizes     map[string]string `json:"prizes"`
	UploadedBy uuid.UUID         `json:"uploadedBy"`
	ViewCount  int               `json:"viewCount"`
	ViewedBy   []uuid.UUID       `json:"viewedBy"`
	CreatedAt  time.Time         `json:"createdAt"`

	UploaderName string `json:"uploaderName,omitempty"`
}
