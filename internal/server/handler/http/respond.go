package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recipebox/api/internal/apperr"
)

// writeJSON writes v as a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to HTTP statuses: validation and
// duplicate-email failures to 400, missing or foreign records to 404,
// bad credentials to 400, anything else to a generic 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrDuplicateEmail):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
