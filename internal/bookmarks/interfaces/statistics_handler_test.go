package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/application"
	"github.com/stretchr/testify/assert"
)

func TestGetStatistics_Success(t *testing.T) {
	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/statistics", nil))
	w := httptest.NewRecorder()

	categoryID := uuid.New()
	mockService := &MockStatisticsService{
		statistics: &application.StatisticsResponse{
			TotalBookmarks:  3,
			TotalCategories: 1,
			TodayAdded:      2,
			CategoryStats: []application.CategoryStat{
				{CategoryID: &categoryID, CategoryName: "Development", Count: 2},
				{CategoryName: "Uncategorized", Count: 1},
			},
		},
	}
	handler := NewStatisticsHandler(mockService, respondJSON, respondError)
	handler.GetStatistics(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)

	statistics, ok := response["statistics"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, float64(3), statistics["totalBookmarks"])
	assert.Len(t, statistics["categoryStats"], 2)
}

func TestGetStatistics_Unauthorized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/statistics", nil)
	w := httptest.NewRecorder()

	handler := NewStatisticsHandler(&MockStatisticsService{}, respondJSON, respondError)
	handler.GetStatistics(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestGetStatistics_ErrorFromService(t *testing.T) {
	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/statistics", nil))
	w := httptest.NewRecorder()

	mockService := &MockStatisticsService{shouldFail: true}
	handler := NewStatisticsHandler(mockService, respondJSON, respondError)
	handler.GetStatistics(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(res.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "Failed to retrieve statistics", response["message"])
}
