package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Version is reported by the health and index endpoints
const Version = "1.0.0"

// StorePinger reports whether the record store is reachable
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	store   StorePinger
	backend string
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store StorePinger, backend string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		backend: backend,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Store:     h.backend,
		Timestamp: time.Now().UTC(),
		Version:   Version,
	}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("store ping failed", "error", err)
		response.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	WriteJSON(w, status, response, h.logger)
}

// Index describes the API at GET /
func Index(logger *slog.Logger) http.HandlerFunc {
	body := map[string]any{
		"message": "Product Management API is running!",
		"version": Version,
		"endpoints": map[string]string{
			"GET /api/products":          "Get all products (supports ?sortBy=price&order=asc&search=name)",
			"GET /api/products/:id":      "Get single product",
			"POST /api/products":         "Create new product",
			"PUT /api/products/:id":      "Update product",
			"DELETE /api/products/:id":   "Delete product",
			"GET /api/categories":        "Get all categories (supports ?sortBy=name&order=asc&search=name)",
			"GET /api/categories/:id":    "Get single category",
			"POST /api/categories":       "Create new category",
			"PUT /api/categories/:id":    "Update category",
			"DELETE /api/categories/:id": "Delete category",
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, body, logger)
	}
}
