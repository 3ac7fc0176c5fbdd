package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sportsclub/backend/internal/service"
	"github.com/sportsclub/backend/internal/storage"
	"github.com/sportsclub/backend/internal/transport/http/middleware"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	store          storage.Storage
	logger         *zap.Logger
}

func NewProfileHandler(profileService *service.ProfileService, store storage.Storage, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, store: store, logger: logger}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.profileService.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.respondProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.profileService.Update(r.Context(), middleware.GetUserID(r.Context()), input)
	if err != nil {
		h.respondProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Please upload a file")
		return
	}

	file, header, err := r.FormFile("profilePicture")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Please upload a file")
		return
	}
	defer file.Close()

	if !storage.AllowedFile(header.Filename) {
		writeError(w, http.StatusBadRequest, "INVALID_FILE_TYPE", "Images or videos only")
		return
	}

	name := storage.ObjectName("profilePicture", header.Filename)
	url, err := h.store.Save(r.Context(), name, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("storing profile picture failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	user, err := h.profileService.SetProfilePicture(r.Context(), middleware.GetUserID(r.Context()), url)
	if err != nil {
		h.respondProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	stats, err := h.profileService.Stats(r.Context(), userID)
	if err != nil {
		h.logger.Error("loading profile stats failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ProfileHandler) respondProfileError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	h.logger.Error("profile request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
}
