package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/Lixing-Zhang/catalog-manager/internal/repository"
	"github.com/Lixing-Zhang/catalog-manager/internal/service"
	"github.com/go-chi/chi/v5"
)

// ResourceService is the contract the handler needs from the service layer
type ResourceService[T any, I any] interface {
	Resource() service.Resource
	List(ctx context.Context, opts service.ListOptions) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in I) (*T, error)
	Update(ctx context.Context, id string, in I) (*T, error)
	Remove(ctx context.Context, id string) (*T, error)
}

// ResourceHandler handles the CRUD routes of one resource
type ResourceHandler[T any, I any] struct {
	service  ResourceService[T, I]
	resource service.Resource
	detail   ErrorDetail
	logger   *slog.Logger
}

// NewResourceHandler creates a handler; detail controls what 500 responses reveal
func NewResourceHandler[T any, I any](svc ResourceService[T, I], detail ErrorDetail, logger *slog.Logger) *ResourceHandler[T, I] {
	if detail == nil {
		detail = ProductionDetail
	}
	return &ResourceHandler[T, I]{
		service:  svc,
		resource: svc.Resource(),
		detail:   detail,
		logger:   logger.With("resource", svc.Resource().Plural),
	}
}

// Routes mounts the handler under its resource path
func (h *ResourceHandler[T, I]) Routes(r chi.Router) {
	base := "/" + h.resource.Plural
	r.Get(base, h.List)
	r.Post(base, h.Create)
	r.Get(base+"/{id}", h.Get)
	r.Put(base+"/{id}", h.Update)
	r.Delete(base+"/{id}", h.Delete)
}

// List handles GET /api/<resource>?search=&sortBy=&order=
func (h *ResourceHandler[T, I]) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := service.ListOptions{
		Search: query.Get("search"),
		SortBy: query.Get("sortBy"),
		Order:  query.Get("order"),
	}

	items, err := h.service.List(r.Context(), opts)
	if err != nil {
		h.fail(w, err, "fetch "+h.resource.Plural)
		return
	}

	count := len(items)
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Count: &count, Data: items}, h.logger)
}

// Get handles GET /api/<resource>/{id}
func (h *ResourceHandler[T, I]) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err, "fetch "+h.singular())
		return
	}

	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: item}, h.logger)
}

// Create handles POST /api/<resource>
func (h *ResourceHandler[T, I]) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	item, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, err, "create "+h.singular())
		return
	}

	h.logger.Info(h.singular() + " created")
	WriteJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: h.resource.Label + " created successfully",
		Data:    item,
	}, h.logger)
}

// Update handles PUT /api/<resource>/{id}
func (h *ResourceHandler[T, I]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	item, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, err, "update "+h.singular())
		return
	}

	h.logger.Info(h.singular()+" updated", "id", id)
	WriteJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: h.resource.Label + " updated successfully",
		Data:    item,
	}, h.logger)
}

// Delete handles DELETE /api/<resource>/{id}
func (h *ResourceHandler[T, I]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.service.Remove(r.Context(), id)
	if err != nil {
		h.fail(w, err, "delete "+h.singular())
		return
	}

	h.logger.Info(h.singular()+" deleted", "id", id)
	WriteJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: h.resource.Label + " deleted successfully",
		Data:    item,
	}, h.logger)
}

func (h *ResourceHandler[T, I]) decode(w http.ResponseWriter, r *http.Request) (I, bool) {
	var in I
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Info("invalid request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return in, false
	}
	return in, true
}

// fail maps service errors onto responses: validation 400, missing 404, anything else 500
func (h *ResourceHandler[T, I]) fail(w http.ResponseWriter, err error, action string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		h.logger.Info("validation failed", "action", action, "error", err)
		WriteJSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Validation error",
			Errors:  verr.Fields,
		}, h.logger)

	case errors.Is(err, repository.ErrNotFound):
		h.logger.Info(h.singular() + " not found")
		WriteError(w, http.StatusNotFound, h.resource.Label+" not found", h.logger)

	default:
		h.logger.Error("failed to "+action, "error", err)
		WriteJSON(w, http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "Failed to " + action,
			Error:   h.detail(err),
		}, h.logger)
	}
}

func (h *ResourceHandler[T, I]) singular() string {
	return strings.ToLower(h.resource.Label)
}

var _ ResourceService[models.Product, models.ProductInput] = (*service.ProductService)(nil)
