package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
)

const testUserID = "c2a7f8e1-0000-4000-8000-000000000001"

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

func authedRequest(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), "userID", testUserID))
}
