package repository

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no record has the requested id, including
	// ids that are not well formed for the backend.
	ErrNotFound = errors.New("record not found")
)

// Query selects and orders records for List
type Query struct {
	Search     string // case-insensitive substring of name; empty matches all
	SortField  string // JSON field name, e.g. "createdAt" or "price"
	Descending bool
}

// Repository defines the record store contract shared by every resource
type Repository[T any] interface {
	List(ctx context.Context, q Query) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, doc *T) error
	Update(ctx context.Context, id string, doc *T) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}

// now returns the write timestamp. Millisecond precision is what MongoDB
// stores, so every backend uses it to keep round trips identical.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// normalizeSearch lowers the search text. Whitespace is significant; only
// the empty string disables the filter.
func normalizeSearch(s string) string {
	return strings.ToLower(s)
}
