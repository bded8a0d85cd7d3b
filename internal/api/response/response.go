package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edvin/kitcatalog/internal/core"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteServiceError maps service errors to HTTP status codes.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrDuplicateSKU), errors.Is(err, core.ErrEmailTaken):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidCursor):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// PaginatedResponse wraps a list with pagination metadata.
type PaginatedResponse struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// WritePaginated writes a paginated JSON response.
func WritePaginated(w http.ResponseWriter, status int, items any, nextCursor string, hasMore bool) {
	WriteJSON(w, status, PaginatedResponse{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	})
}
