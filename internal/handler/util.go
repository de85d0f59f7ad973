package handler

import (
	"encoding/json"
	"net/http"

	"github.com/chatdigest/link-digest-service/internal/model"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the failure wire shape: a user-facing message, an
// optional diagnostic, and optional structured details.
func writeError(w http.ResponseWriter, status int, message, diagnostic string, details interface{}) {
	writeJSON(w, status, model.ErrorResponse{
		Message: message,
		Error:   diagnostic,
		Details: details,
	})
}
