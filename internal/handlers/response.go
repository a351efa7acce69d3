package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
)

// Envelope is the response body shape of every API endpoint
type Envelope = models.Envelope[any]

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a {success:false, message} envelope
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, Envelope{Success: false, Message: message}, logger)
}

// ErrorDetail chooses what an unhandled error exposes to the caller
type ErrorDetail func(err error) string

// DevelopmentDetail exposes the error text
func DevelopmentDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ProductionDetail hides the error behind a generic message
func ProductionDetail(error) string {
	return "Internal server error"
}

// NotFound answers unknown routes
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Route not found", logger)
	}
}

// PanicResponder answers requests whose handler panicked
func PanicResponder(detail ErrorDetail, logger *slog.Logger) func(w http.ResponseWriter, r *http.Request, err error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		WriteJSON(w, http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "Something went wrong!",
			Error:   detail(err),
		}, logger)
	}
}
