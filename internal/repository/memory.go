package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/google/uuid"
)

// InMemoryRepository implements Repository with in-process storage.
// Records are kept in insertion order and returned as copies.
type InMemoryRepository[T any, PT models.Document[T]] struct {
	mu    sync.RWMutex
	items []T
}

// NewInMemoryRepository creates an empty in-memory repository
func NewInMemoryRepository[T any, PT models.Document[T]]() *InMemoryRepository[T, PT] {
	return &InMemoryRepository[T, PT]{}
}

// List returns matching records in the requested order
func (r *InMemoryRepository[T, PT]) List(ctx context.Context, q Query) ([]T, error) {
	search := normalizeSearch(q.Search)

	r.mu.RLock()
	out := make([]T, 0, len(r.items))
	for _, item := range r.items {
		if search == "" || strings.Contains(strings.ToLower(PT(&item).SearchName()), search) {
			out = append(out, item)
		}
	}
	r.mu.RUnlock()

	if q.SortField != "" {
		// Reversing first keeps ties newest-first under descending order.
		if q.Descending {
			slices.Reverse(out)
		}
		slices.SortStableFunc(out, func(a, b T) int {
			av, _ := PT(&a).SortValue(q.SortField)
			bv, _ := PT(&b).SortValue(q.SortField)
			c := compareValues(av, bv)
			if q.Descending {
				return -c
			}
			return c
		})
	}

	return out, nil
}

// GetByID returns a record by its ID
func (r *InMemoryRepository[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	item := r.items[i]
	return &item, nil
}

// Create assigns a fresh UUID and both timestamps, then stores a copy of doc
func (r *InMemoryRepository[T, PT]) Create(ctx context.Context, doc *T) error {
	ts := now()
	PT(doc).AssignID(uuid.NewString())
	PT(doc).Stamp(ts, ts)

	r.mu.Lock()
	r.items = append(r.items, *doc)
	r.mu.Unlock()
	return nil
}

// Update replaces the stored record, keeping only its id and creation time
func (r *InMemoryRepository[T, PT]) Update(ctx context.Context, id string, doc *T) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	PT(doc).AssignID(id)
	PT(doc).Stamp(PT(&r.items[i]).CreatedTime(), now())
	r.items[i] = *doc

	item := r.items[i]
	return &item, nil
}

// Delete removes the record and returns its prior state
func (r *InMemoryRepository[T, PT]) Delete(ctx context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	item := r.items[i]
	r.items = slices.Delete(r.items, i, i+1)
	return &item, nil
}

// indexOf must be called with mu held.
func (r *InMemoryRepository[T, PT]) indexOf(id string) int {
	if _, err := uuid.Parse(id); err != nil {
		return -1
	}
	for i := range r.items {
		if PT(&r.items[i]).DocumentID() == id {
			return i
		}
	}
	return -1
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return 0
}
