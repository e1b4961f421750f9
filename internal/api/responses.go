package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"stacy-ai/backend/internal/apperrors"
)

// ErrorResponse is the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic success response for operations that return
// no resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// respondWithError maps business-layer sentinel errors to HTTP status
// codes and writes a standard JSON error body. Unrecognized errors become
// a generic 500 so implementation details never leak to the client.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, apperrors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		message = "A response is already in flight for this session."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// setupSSEHeaders prepares the response for a Server-Sent Events stream.
func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// writeStreamEvent marshals data and writes it as one SSE data frame. A
// write failure signals the client has disconnected.
func writeStreamEvent(w http.ResponseWriter, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		return nil
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", string(jsonData)); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
