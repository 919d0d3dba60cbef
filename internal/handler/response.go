package handler

// Every error response has the same shape:
//
//	{"error": "User not found"}
//
// Clients should branch on the status code, not on the message text.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/exercise-tracker/internal/apperror"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends data as JSON with the given status code.
// Headers must be set before WriteHeader; anything set afterwards is dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a service error to a status code and body.
//
//	apperror.ErrValidation → 400 with the validation message
//	apperror.ErrNotFound   → 404 "<Resource> not found"
//	anything else          → 500 with the route's fixed failure message
//
// Internal error text never reaches the client.
func writeError(w http.ResponseWriter, err error, failure string) {
	var appErr *apperror.AppError

	switch {
	case apperror.IsValidation(err) && errors.As(err, &appErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
	case apperror.IsNotFound(err) && errors.As(err, &appErr):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: notFoundMessage(appErr.Resource)})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: failure})
	}
}

func notFoundMessage(resource string) string {
	if resource == "" {
		return "Not found"
	}
	return strings.ToUpper(resource[:1]) + resource[1:] + " not found"
}
