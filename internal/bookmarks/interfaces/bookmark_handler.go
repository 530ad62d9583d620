package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/application"
	bookmarkErrors "github.com/sebuszqo/BookmarkManager/internal/bookmarks/errors"
)

type BookmarkServiceInterface interface {
	GetBookmarks(ctx context.Context, userID string, page, size int, categoryID *uuid.UUID, keyword string) (*application.PageResponse, error)
	GetBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID) (*application.BookmarkResponse, error)
	CreateBookmark(ctx context.Context, userID string, input application.BookmarkInput) (*application.BookmarkResponse, error)
	UpdateBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID, input application.BookmarkInput) (*application.BookmarkResponse, error)
	DeleteBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID) error
	BatchDeleteBookmarks(ctx context.Context, userID string, bookmarkIDs []uuid.UUID) (int64, error)
	ReorderBookmarks(ctx context.Context, userID string, bookmarkIDs []uuid.UUID) error
	MoveBookmark(ctx context.Context, userID string, bookmarkID uuid.UUID, targetCategoryID *uuid.UUID) (*application.BookmarkResponse, error)
}

type BookmarkHandler struct {
	service      BookmarkServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewBookmarkHandler(
	service BookmarkServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *BookmarkHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &BookmarkHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type bookmarkReorderRequest struct {
	BookmarkIDs []uuid.UUID `json:"bookmarkIds"`
}

type bookmarkBatchDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type bookmarkMoveRequest struct {
	CategoryID *uuid.UUID `json:"categoryId"`
}

func (h *BookmarkHandler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	size, _ := strconv.Atoi(query.Get("size"))

	var categoryID *uuid.UUID
	if rawCategoryID := query.Get("categoryId"); rawCategoryID != "" {
		parsed, err := uuid.Parse(rawCategoryID)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid category ID")
			return
		}
		categoryID = &parsed
	}

	result, err := h.service.GetBookmarks(r.Context(), userID, page, size, categoryID, query.Get("keyword"))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve bookmarks")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

func (h *BookmarkHandler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookmarkID, ok := parseUUIDParam(r, "bookmarkID")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid bookmark ID")
		return
	}

	bookmark, err := h.service.GetBookmark(r.Context(), userID, bookmarkID)
	if err != nil {
		h.respondBookmarkError(w, err, "Failed to retrieve bookmark")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"bookmark": bookmark,
	})
}

func (h *BookmarkHandler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input application.BookmarkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	bookmark, err := h.service.CreateBookmark(r.Context(), userID, input)
	if err != nil {
		h.respondBookmarkError(w, err, "Failed to create bookmark")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":   "success",
		"message":  "Bookmark created successfully.",
		"bookmark": bookmark,
	})
}

func (h *BookmarkHandler) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookmarkID, ok := parseUUIDParam(r, "bookmarkID")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid bookmark ID")
		return
	}

	var input application.BookmarkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	bookmark, err := h.service.UpdateBookmark(r.Context(), userID, bookmarkID, input)
	if err != nil {
		h.respondBookmarkError(w, err, "Failed to update bookmark")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"message":  "Bookmark updated successfully.",
		"bookmark": bookmark,
	})
}

func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookmarkID, ok := parseUUIDParam(r, "bookmarkID")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid bookmark ID")
		return
	}

	if err := h.service.DeleteBookmark(r.Context(), userID, bookmarkID); err != nil {
		h.respondBookmarkError(w, err, "Failed to delete bookmark")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Bookmark deleted successfully.",
	})
}

func (h *BookmarkHandler) BatchDeleteBookmarks(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req bookmarkBatchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	deleted, err := h.service.BatchDeleteBookmarks(r.Context(), userID, req.IDs)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to delete bookmarks")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Bookmarks deleted successfully.",
		"deleted": deleted,
	})
}

func (h *BookmarkHandler) ReorderBookmarks(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req bookmarkReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ReorderBookmarks(r.Context(), userID, req.BookmarkIDs); err != nil {
		h.respondBookmarkError(w, err, "Failed to reorder bookmarks")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Bookmarks reordered successfully.",
	})
}

func (h *BookmarkHandler) MoveBookmark(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookmarkID, ok := parseUUIDParam(r, "bookmarkID")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid bookmark ID")
		return
	}

	var req bookmarkMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	bookmark, err := h.service.MoveBookmark(r.Context(), userID, bookmarkID, req.CategoryID)
	if err != nil {
		h.respondBookmarkError(w, err, "Failed to move bookmark")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"message":  "Bookmark moved successfully.",
		"bookmark": bookmark,
	})
}

func (h *BookmarkHandler) respondBookmarkError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, application.ErrBookmarkNotFound):
		h.respondError(w, http.StatusNotFound, application.ErrBookmarkNotFound.Error())
	case errors.Is(err, application.ErrCategoryNotFound):
		h.respondError(w, http.StatusNotFound, application.ErrCategoryNotFound.Error())
	case errors.Is(err, application.ErrTargetCategoryNotFound):
		h.respondError(w, http.StatusNotFound, application.ErrTargetCategoryNotFound.Error())
	case bookmarkErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}
