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

var ErrEventNotFound = errors.New("event not found")

type EventService struct {
	eventRepo repository.EventRepository
	notifier  FeedNotifier
}

func NewEventService(eventRepo repository.EventRepository, notifier FeedNotifier) *EventService {
	return &EventService{eventRepo: eventRepo, notifier: notifier}
}

type CreateEventInput struct {
	Title     string
	SportName string
	Date      time.Time
	Place     string
	Rules     string
	Prizes    map[string]string
	Poster    *string
}

func (s *EventService) Create(ctx context.Context, userID uuid.UUID, input CreateEventInput) (*domain.Event, error) {
	if input.Title == "" {
		input.Title = "Untitled Event"
	}
	if input.Rules == "" {
		input.Rules = "No rules specified"
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}
	if input.Prizes == nil {
		input.Prizes = map[string]string{}
	}

	event := &domain.Event{
		ID:         uuid.New(),
		Title:      input.Title,
		SportName:  input.SportName,
		Date:       input.Date,
		Place:      input.Place,
		Rules:      input.Rules,
		Prizes:     input.Prizes,
		Poster:     input.Poster,
		UploadedBy: userID,
		ViewedBy:   []uuid.UUID{},
		CreatedAt:  time.Now(),
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyEventCreated(event)
	}

	return event, nil
}

func (s *EventService) ListAll(ctx context.Context) ([]domain.Event, error) {
	return s.eventRepo.ListAll(ctx)
}

func (s *EventService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Event, error) {
	return s.eventRepo.ListByUser(ctx, userID)
}

// TrackView counts a viewer once per event; repeat views just report the
// current count.
func (s *EventService) TrackView(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	count, found, err := s.eventRepo.TrackView(ctx, eventID, userID)
	if err != nil {
		return 0, fmt.Errorf("tracking event view: %w", err)
	}
	if !found {
		return 0, ErrEventNotFound
	}
	return count, nil
}
