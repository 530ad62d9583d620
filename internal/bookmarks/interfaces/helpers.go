package interfaces

import (
	"net/http"

	"github.com/google/uuid"
)

// userIDFromRequest pulls the authenticated user id placed into the request
// context by the JWT middleware. An empty result means the middleware did
// not run; the caller responds 401.
func userIDFromRequest(r *http.Request) string {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		return ""
	}
	return userID
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, bool) {
	value := r.PathValue(name)
	parsed, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}
