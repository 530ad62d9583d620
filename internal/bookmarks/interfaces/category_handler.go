package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/application"
	bookmarkErrors "github.com/sebuszqo/BookmarkManager/internal/bookmarks/errors"
)

type CategoryServiceInterface interface {
	GetCategories(ctx context.Context, userID string) ([]application.CategoryResponse, error)
	CreateCategory(ctx context.Context, userID, name, icon string) (*application.CategoryResponse, error)
	UpdateCategory(ctx context.Context, userID string, categoryID uuid.UUID, name string, icon *string) (*application.CategoryResponse, error)
	DeleteCategory(ctx context.Context, userID string, categoryID uuid.UUID, moveBookmarksTo *uuid.UUID) error
	ReorderCategories(ctx context.Context, userID string, categoryIDs []uuid.UUID) error
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type categoryRequest struct {
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

type categoryReorderRequest struct {
	CategoryIDs []uuid.UUID `json:"categoryIds"`
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categories, err := h.service.GetCategories(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"categories": categories,
	})
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	icon := ""
	if req.Icon != nil {
		icon = *req.Icon
	}
	category, err := h.service.CreateCategory(r.Context(), userID, req.Name, icon)
	if err != nil {
		h.respondCategoryError(w, err, "Failed to create category")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":   "success",
		"message":  "Category created successfully.",
		"category": category,
	})
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categoryID, ok := parseUUIDParam(r, "categoryID")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), userID, categoryID, req.Name, req.Icon)
	if err != nil {
		h.respondCategoryError(w, err, "Failed to update category")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"message":  "Category updated successfully.",
		"category": category,
	})
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categoryID, ok := parseUUIDParam(r, "categoryID")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var moveBookmarksTo *uuid.UUID
	if target := r.URL.Query().Get("moveBookmarksTo"); target != "" {
		parsed, err := uuid.Parse(target)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid target category ID")
			return
		}
		moveBookmarksTo = &parsed
	}

	if err := h.service.DeleteCategory(r.Context(), userID, categoryID, moveBookmarksTo); err != nil {
		h.respondCategoryError(w, err, "Failed to delete category")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Category deleted successfully.",
	})
}

func (h *CategoryHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req categoryReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ReorderCategories(r.Context(), userID, req.CategoryIDs); err != nil {
		h.respondCategoryError(w, err, "Failed to reorder categories")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Categories reordered successfully.",
	})
}

func (h *CategoryHandler) respondCategoryError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, application.ErrCategoryNotFound):
		h.respondError(w, http.StatusNotFound, application.ErrCategoryNotFound.Error())
	case errors.Is(err, application.ErrTargetCategoryNotFound):
		h.respondError(w, http.StatusNotFound, application.ErrTargetCategoryNotFound.Error())
	case errors.Is(err, application.ErrCategoryNameTaken):
		h.respondError(w, http.StatusConflict, application.ErrCategoryNameTaken.Error())
	case bookmarkErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}
