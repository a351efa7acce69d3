package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lixing-Zhang/catalog-manager/internal/handlers"
	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/Lixing-Zhang/catalog-manager/internal/repository"
	"github.com/Lixing-Zhang/catalog-manager/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Client {
	t.Helper()
	stores := repository.NewMemoryStores()
	srv := httptest.NewServer(handlers.NewRouter(handlers.RouterConfig{
		Products:     service.NewProductService(stores.Products),
		Categories:   service.NewCategoryService(stores.Categories),
		Store:        stores,
		StoreBackend: stores.Backend,
		Logger:       slog.New(slog.DiscardHandler),
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestResource_CRUD(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	products := c.Products()

	created, err := products.Create(ctx, models.ProductInput{
		Name:        "Dune",
		Price:       models.ParseAmount("19.99"),
		Description: "novel",
		Category:    "Books",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 19.99, created.Price)

	got, err := products.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	in := models.ProductInputFrom(*got)
	in.Name = "Dune Messiah"
	updated, err := products.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Name)
	assert.Equal(t, 19.99, updated.Price)

	list, err := products.List(ctx, ListParams{Search: "messiah"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	deleted, err := products.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", deleted.Name)

	_, err = products.Get(ctx, created.ID)
	assert.True(t, IsNotFound(err))
}

func TestResource_ListParams(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	for _, name := range []string{"Books", "Art", "Music"} {
		_, err := c.Categories().Create(ctx, models.CategoryInput{Name: name})
		require.NoError(t, err)
	}

	list, err := c.Categories().List(ctx, ListParams{SortBy: "name", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Art", list[0].Name)
	assert.Equal(t, "Music", list[2].Name)

	empty, err := c.Categories().List(ctx, ListParams{Search: "nothing"})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestAPIError_PreservesValidationPayload(t *testing.T) {
	c := newTestServer(t)

	_, err := c.Products().Create(context.Background(), models.ProductInput{Name: "Dune"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Validation error", apiErr.Message)
	assert.Equal(t, []models.FieldError{
		{Field: "price", Message: "price is required"},
		{Field: "description", Message: "description is required"},
		{Field: "category", Message: "category is required"},
	}, apiErr.Errors)
	assert.Contains(t, err.Error(), "category is required")
}

func TestAPIError_RouteNotFound(t *testing.T) {
	c := newTestServer(t)

	err := c.Get(context.Background(), "/api/orders", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Route not found", apiErr.Message)
}

func TestAPIError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	err := New(srv.URL).Get(context.Background(), "/api/products", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.Equal(t, "upstream exploded", apiErr.Detail)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url).Get(context.Background(), "/api/products", nil)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not API errors")
}

func TestListParams_Encode(t *testing.T) {
	assert.Equal(t, "", ListParams{}.encode())
	assert.Equal(t, "?order=asc&search=a+b&sortBy=price", ListParams{Search: "a b", SortBy: "price", Order: "asc"}.encode())
}
