package view

import (
	"context"
	"sort"
	"strconv"

	"github.com/Lixing-Zhang/catalog-manager/internal/client"
	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"golang.org/x/sync/errgroup"
)

type (
	ProductCollection  = Collection[models.Product, models.ProductInput]
	CategoryCollection = Collection[models.Category, models.CategoryInput]
	ProductForm        = Form[models.Product, models.ProductInput]
	CategoryForm       = Form[models.Category, models.CategoryInput]
)

// ProductSchema filters products on name, category and price text
var ProductSchema = Schema[models.Product, models.ProductInput]{
	ID: func(p models.Product) string { return p.ID },
	Match: func(p models.Product) []string {
		return []string{p.Name, p.Category, FormatPrice(p.Price)}
	},
	Input: models.ProductInputFrom,
}

// CategorySchema filters categories on name and description
var CategorySchema = Schema[models.Category, models.CategoryInput]{
	ID: func(c models.Category) string { return c.ID },
	Match: func(c models.Category) []string {
		return []string{c.Name, c.Description}
	},
	Input: models.CategoryInputFrom,
}

// Catalog is the client-side store shared by every view
type Catalog struct {
	Products   *ProductCollection
	Categories *CategoryCollection
}

// NewCatalog creates an empty catalog backed by the API client
func NewCatalog(c *client.Client) *Catalog {
	return &Catalog{
		Products:   NewCollection[models.Product, models.ProductInput](c.Products(), ProductSchema),
		Categories: NewCollection[models.Category, models.CategoryInput](c.Categories(), CategorySchema),
	}
}

// Load fetches categories and products concurrently
func (c *Catalog) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Categories.Refresh(ctx) })
	g.Go(func() error { return c.Products.Refresh(ctx) })
	return g.Wait()
}

// CategoryCount is one row of the dashboard breakdown
type CategoryCount struct {
	Category string
	Products int
	Known    bool // a category with this name exists
}

// Summary is the dashboard view of the catalog
type Summary struct {
	Products   int
	Categories int
	ByCategory []CategoryCount
}

// Summary counts held products per category name. Product categories are
// soft references, so names without a matching category are reported too.
func (c *Catalog) Summary() Summary {
	categories := c.Categories.Items()
	known := make(map[string]bool, len(categories))
	for _, cat := range categories {
		known[cat.Name] = true
	}

	counts := make(map[string]int)
	products := c.Products.Items()
	for _, p := range products {
		counts[p.Category]++
	}
	for name := range known {
		if _, ok := counts[name]; !ok {
			counts[name] = 0
		}
	}

	rows := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		rows = append(rows, CategoryCount{Category: name, Products: n, Known: known[name]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Products != rows[j].Products {
			return rows[i].Products > rows[j].Products
		}
		return rows[i].Category < rows[j].Category
	})

	return Summary{
		Products:   len(products),
		Categories: len(categories),
		ByCategory: rows,
	}
}

// FormatPrice renders a price the way it is matched by Filter
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
