package client

import (
	"context"
	"net/url"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
)

// ListParams are the server-side list options
type ListParams struct {
	Search string
	SortBy string
	Order  string
}

func (p ListParams) encode() string {
	v := url.Values{}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.Order != "" {
		v.Set("order", p.Order)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// Resource is a typed client for one API resource
type Resource[T any, I any] struct {
	client *Client
	path   string
}

// NewResource creates a typed client for the resource mounted at /api/<plural>
func NewResource[T any, I any](c *Client, plural string) *Resource[T, I] {
	return &Resource[T, I]{client: c, path: "/api/" + plural}
}

// Products returns the typed product client
func (c *Client) Products() *Resource[models.Product, models.ProductInput] {
	return NewResource[models.Product, models.ProductInput](c, "products")
}

// Categories returns the typed category client
func (c *Client) Categories() *Resource[models.Category, models.CategoryInput] {
	return NewResource[models.Category, models.CategoryInput](c, "categories")
}

func (r *Resource[T, I]) List(ctx context.Context, p ListParams) ([]T, error) {
	var env models.Envelope[[]T]
	if err := r.client.Get(ctx, r.path+p.encode(), &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []T{}
	}
	return env.Data, nil
}

func (r *Resource[T, I]) Get(ctx context.Context, id string) (*T, error) {
	var env models.Envelope[*T]
	if err := r.client.Get(ctx, r.itemPath(id), &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (r *Resource[T, I]) Create(ctx context.Context, in I) (*T, error) {
	var env models.Envelope[*T]
	if err := r.client.Post(ctx, r.path, in, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (r *Resource[T, I]) Update(ctx context.Context, id string, in I) (*T, error) {
	var env models.Envelope[*T]
	if err := r.client.Put(ctx, r.itemPath(id), in, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Delete removes the record and returns its last state
func (r *Resource[T, I]) Delete(ctx context.Context, id string) (*T, error) {
	var env models.Envelope[*T]
	if err := r.client.Delete(ctx, r.itemPath(id), &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (r *Resource[T, I]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
