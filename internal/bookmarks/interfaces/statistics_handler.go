package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/application"
)

type StatisticsServiceInterface interface {
	GetStatistics(ctx context.Context, userID string) (*application.StatisticsResponse, error)
}

type StatisticsHandler struct {
	service      StatisticsServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewStatisticsHandler(
	service StatisticsServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *StatisticsHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &StatisticsHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *StatisticsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	statistics, err := h.service.GetStatistics(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"statistics": statistics,
	})
}
