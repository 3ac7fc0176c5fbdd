package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sportsclub/backend/internal/service"
	"github.com/sportsclub/backend/internal/storage"
	"github.com/sportsclub/backend/internal/transport/http/middleware"
)

const maxUploadSize = 200 << 20 // 200MB, big enough for short clips

type PostHandler struct {
	postService *service.PostService
	store       storage.Storage
	logger      *zap.Logger
}

func NewPostHandler(postService *service.PostService, store storage.Storage, logger *zap.Logger) *PostHandler {
	return &PostHandler{postService: postService, store: store, logger: logger}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Please upload a file")
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Please upload a file")
		return
	}
	defer file.Close()

	if !storage.AllowedFile(header.Filename) {
		writeError(w, http.StatusBadRequest, "INVALID_FILE_TYPE", "Images or videos only")
		return
	}

	contentType := header.Header.Get("Content-Type")
	name := storage.ObjectName("media", header.Filename)

	url, err := h.store.Save(r.Context(), name, contentType, file)
	if err != nil {
		h.logger.Error("storing media failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	post, err := h.postService.Create(r.Context(), middleware.GetUserID(r.Context()), service.CreatePostInput{
		MediaURL:  url,
		Title:     r.FormValue("title"),
		MediaType: contentType,
	})
	if err != nil {
		h.logger.Error("creating post failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListAll(r.Context())
	if err != nil {
		h.logger.Error("listing posts failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	posts, err := h.postService.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("listing user posts failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, true)
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, false)
}

func (h *PostHandler) toggleLike(w http.ResponseWriter, r *http.Request, like bool) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return
	}
	userID := middleware.GetUserID(r.Context())

	var status *service.LikeStatus
	if like {
		status, err = h.postService.Like(r.Context(), postID, userID)
	} else {
		status, err = h.postService.Unlike(r.Context(), postID, userID)
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")
		case errors.Is(err, service.ErrAlreadyLiked):
			writeError(w, http.StatusBadRequest, "ALREADY_LIKED", "Post already liked")
		case errors.Is(err, service.ErrNotLiked):
			writeError(w, http.StatusBadRequest, "NOT_LIKED", "Post not liked yet")
		default:
			h.logger.Error("like toggle failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, status)
}
