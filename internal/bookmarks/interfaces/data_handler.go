package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/BookmarkManager/internal/bookmarks/application"
)

type DataServiceInterface interface {
	Import(ctx context.Context, userID string, doc application.ImportDocument) (*application.ImportResult, error)
	Export(ctx context.Context, userID string) (*application.ExportDocument, error)
	ClearAll(ctx context.Context, userID string) (*application.ClearResult, error)
}

type DataHandler struct {
	service      DataServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewDataHandler(
	service DataServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *DataHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &DataHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *DataHandler) ExportData(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	document, err := h.service.Export(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to export data")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Data exported successfully.",
		"data":    document,
	})
}

func (h *DataHandler) ImportData(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var document application.ImportDocument
	if err := json.NewDecoder(r.Body).Decode(&document); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Import(r.Context(), userID, document)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to import data")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Data imported successfully.",
		"result":  result,
	})
}

func (h *DataHandler) ClearData(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.service.ClearAll(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to clear data")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "All data cleared.",
		"result":  result,
	})
}
