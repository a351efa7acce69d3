package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/Lixing-Zhang/catalog-manager/internal/repository"
	"github.com/go-playground/validator/v10"
)

// DefaultSortField orders listings when no sortBy is given
const DefaultSortField = "createdAt"

// Resource describes one manageable entity type
type Resource struct {
	Label      string   // singular, capitalized: "Product"
	Plural     string   // lower-case collection name: "products"
	SortFields []string // JSON fields accepted by sortBy
}

var (
	ProductResource = Resource{
		Label:      "Product",
		Plural:     "products",
		SortFields: []string{"id", "name", "price", "description", "category", "createdAt", "updatedAt"},
	}

	CategoryResource = Resource{
		Label:      "Category",
		Plural:     "categories",
		SortFields: []string{"id", "name", "description", "createdAt", "updatedAt"},
	}
)

// ListOptions carries the raw list query parameters
type ListOptions struct {
	Search string
	SortBy string
	Order  string // "asc" for ascending, anything else is descending
}

// Service implements the resource operations shared by products and categories.
// T is the stored type and I the typed request payload.
type Service[T any, I models.Payload[T]] struct {
	resource Resource
	repo     repository.Repository[T]
	validate *validator.Validate
}

type (
	ProductService  = Service[models.Product, models.ProductInput]
	CategoryService = Service[models.Category, models.CategoryInput]
)

// New creates a resource service. A nil validator gets the default catalog rules.
func New[T any, I models.Payload[T]](resource Resource, repo repository.Repository[T], v *validator.Validate) *Service[T, I] {
	if v == nil {
		v = NewValidator()
	}
	return &Service[T, I]{
		resource: resource,
		repo:     repo,
		validate: v,
	}
}

// NewProductService creates the product service
func NewProductService(repo repository.Repository[models.Product]) *ProductService {
	return New[models.Product, models.ProductInput](ProductResource, repo, nil)
}

// NewCategoryService creates the category service
func NewCategoryService(repo repository.Repository[models.Category]) *CategoryService {
	return New[models.Category, models.CategoryInput](CategoryResource, repo, nil)
}

// Resource returns the descriptor of the managed entity type
func (s *Service[T, I]) Resource() Resource {
	return s.resource
}

// List returns every record whose name contains opts.Search, ordered per opts
func (s *Service[T, I]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	q, err := s.buildQuery(opts)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.resource.Plural, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get returns a record by ID
func (s *Service[T, I]) Get(ctx context.Context, id string) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the payload and stores a new record
func (s *Service[T, I]) Create(ctx context.Context, in I) (*T, error) {
	if err := validatePayload(s.validate, in); err != nil {
		return nil, err
	}

	doc := in.Document()
	if err := s.repo.Create(ctx, &doc); err != nil {
		return nil, fmt.Errorf("create %s: %w", strings.ToLower(s.resource.Label), err)
	}
	return &doc, nil
}

// Update validates the payload and replaces every editable field of the record
func (s *Service[T, I]) Update(ctx context.Context, id string, in I) (*T, error) {
	if err := validatePayload(s.validate, in); err != nil {
		return nil, err
	}

	doc := in.Document()
	return s.repo.Update(ctx, id, &doc)
}

// Remove deletes a record and returns its prior state
func (s *Service[T, I]) Remove(ctx context.Context, id string) (*T, error) {
	return s.repo.Delete(ctx, id)
}

func (s *Service[T, I]) buildQuery(opts ListOptions) (repository.Query, error) {
	field := strings.TrimSpace(opts.SortBy)
	if field == "" {
		field = DefaultSortField
	}

	if !slices.Contains(s.resource.SortFields, field) {
		return repository.Query{}, &ValidationError{Fields: []models.FieldError{{
			Field:   "sortBy",
			Message: fmt.Sprintf("sortBy must be one of %s", strings.Join(s.resource.SortFields, ", ")),
		}}}
	}

	return repository.Query{
		Search:     opts.Search,
		SortField:  field,
		Descending: !strings.EqualFold(strings.TrimSpace(opts.Order), "asc"),
	}, nil
}
