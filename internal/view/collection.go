package view

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Lixing-Zhang/catalog-manager/internal/client"
)

// API is the typed transport a Collection reads and writes through
type API[T any, I any] interface {
	List(ctx context.Context, p client.ListParams) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in I) (*T, error)
	Update(ctx context.Context, id string, in I) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}

// Schema tells a Collection how to read its records
type Schema[T any, I any] struct {
	ID    func(T) string
	Match func(T) []string // texts searched by Filter
	Input func(T) I        // payload that rewrites a record unchanged
}

// Collection is the client-side copy of one resource. It holds the result of
// the last fetch and is patched locally after every successful mutation.
type Collection[T any, I any] struct {
	api    API[T, I]
	schema Schema[T, I]

	mu     sync.RWMutex
	items  []T
	params client.ListParams
}

// NewCollection creates an empty collection
func NewCollection[T any, I any](api API[T, I], schema Schema[T, I]) *Collection[T, I] {
	return &Collection[T, I]{api: api, schema: schema}
}

// Refresh re-runs the last server-side query
func (c *Collection[T, I]) Refresh(ctx context.Context) error {
	c.mu.RLock()
	params := c.params
	c.mu.RUnlock()
	return c.Query(ctx, params)
}

// Query fetches the collection with explicit server-side search and sort
func (c *Collection[T, I]) Query(ctx context.Context, p client.ListParams) error {
	items, err := c.api.List(ctx, p)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.items = items
	c.params = p
	c.mu.Unlock()
	return nil
}

// Items returns a copy of the held records in their current order
func (c *Collection[T, I]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Len returns the number of held records
func (c *Collection[T, I]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Find looks a record up in memory
func (c *Collection[T, I]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Filter returns the held records where any match text contains q,
// ignoring case. An empty q returns everything.
func (c *Collection[T, I]) Filter(q string) []T {
	q = strings.ToLower(strings.TrimSpace(q))

	c.mu.RLock()
	defer c.mu.RUnlock()

	if q == "" {
		return slices.Clone(c.items)
	}

	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		for _, text := range c.schema.Match(item) {
			if strings.Contains(strings.ToLower(text), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Edit opens a form. An empty id gives a blank form for a new record;
// otherwise the form is pre-populated from memory, or from a GET when the
// record is not held.
func (c *Collection[T, I]) Edit(ctx context.Context, id string) (*Form[T, I], error) {
	if id == "" {
		return &Form[T, I]{}, nil
	}

	item, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Form[T, I]{ID: id, Input: c.schema.Input(*item)}, nil
}

// Get returns the held record, or fetches it when it is not held
func (c *Collection[T, I]) Get(ctx context.Context, id string) (*T, error) {
	if item, ok := c.Find(id); ok {
		return &item, nil
	}
	return c.api.Get(ctx, id)
}

// Submit saves the form: POST for a new record, PUT for an existing one.
// The saved record is patched into the collection.
func (c *Collection[T, I]) Submit(ctx context.Context, f *Form[T, I]) (*T, error) {
	if f.Mode() == ModeNew {
		saved, err := c.api.Create(ctx, f.Input)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.items = slices.Insert(c.items, 0, *saved)
		c.mu.Unlock()
		return saved, nil
	}

	saved, err := c.api.Update(ctx, f.ID, f.Input)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if i := c.indexOf(f.ID); i >= 0 {
		c.items[i] = *saved
	} else {
		c.items = slices.Insert(c.items, 0, *saved)
	}
	c.mu.Unlock()
	return saved, nil
}

// Delete removes the record on the server, then from memory
func (c *Collection[T, I]) Delete(ctx context.Context, id string) (*T, error) {
	deleted, err := c.api.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
	}
	c.mu.Unlock()
	return deleted, nil
}

// indexOf must be called with mu held.
func (c *Collection[T, I]) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(item T) bool {
		return c.schema.ID(item) == id
	})
}
