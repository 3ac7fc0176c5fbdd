package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sportsclub/backend/internal/service"
	"github.com/sportsclub/backend/internal/storage"
	"github.com/sportsclub/backend/internal/transport/http/middleware"
)

type EventHandler struct {
	eventService *service.EventService
	store        storage.Storage
	logger       *zap.Logger
}

func NewEventHandler(eventService *service.EventService, store storage.Storage, logger *zap.Logger) *EventHandler {
	return &EventHandler{eventService: eventService, store: store, logger: logger}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid form data")
		return
	}

	input := service.CreateEventInput{
		Title:     r.FormValue("title"),
		SportName: r.FormValue("sportName"),
		Date:      parseEventDate(r.FormValue("date")),
		Place:     r.FormValue("place"),
		Rules:     r.FormValue("rules"),
		Prizes: map[string]string{
			"1st": r.FormValue("prize1"),
			"2nd": r.FormValue("prize2"),
			"3rd": r.FormValue("prize3"),
			"4th": r.FormValue("prize4"),
			"5th": r.FormValue("prize5"),
		},
	}

	// Poster is optional.
	if file, header, err := r.FormFile("eventImage"); err == nil {
		defer file.Close()

		if !storage.AllowedFile(header.Filename) {
			writeError(w, http.StatusBadRequest, "INVALID_FILE_TYPE", "Images or videos only")
			return
		}

		name := storage.ObjectName("eventImage", header.Filename)
		url, err := h.store.Save(r.Context(), name, header.Header.Get("Content-Type"), file)
		if err != nil {
			h.logger.Error("storing poster failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
			return
		}
		input.Poster = &url
	}

	event, err := h.eventService.Create(r.Context(), middleware.GetUserID(r.Context()), input)
	if err != nil {
		h.logger.Error("creating event failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListAll(r.Context())
	if err != nil {
		h.logger.Error("listing events failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	events, err := h.eventService.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("listing user events failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) TrackView(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid event ID")
		return
	}

	count, err := h.eventService.TrackView(r.Context(), eventID, middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "EVENT_NOT_FOUND", "Event not found")
		} else {
			h.logger.Error("tracking view failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"viewCount": count})
}

func parseEventDate(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
