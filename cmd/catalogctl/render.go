package main

import (
	"fmt"
	"io"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/Lixing-Zhang/catalog-manager/internal/view"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func renderProducts(w io.Writer, products []models.Product) {
	t := newTable("ID", "NAME", "PRICE", "CATEGORY", "DESCRIPTION")
	for _, p := range products {
		t.Row(p.ID, p.Name, view.FormatPrice(p.Price), p.Category, p.Description)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, mutedStyle.Render(countLabel(len(products), "product", "products")))
}

func renderCategories(w io.Writer, categories []models.Category) {
	t := newTable("ID", "NAME", "DESCRIPTION")
	for _, c := range categories {
		t.Row(c.ID, c.Name, c.Description)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, mutedStyle.Render(countLabel(len(categories), "category", "categories")))
}

func renderProduct(w io.Writer, p *models.Product) {
	t := newTable("FIELD", "VALUE").Rows(
		[]string{"id", p.ID},
		[]string{"name", p.Name},
		[]string{"price", view.FormatPrice(p.Price)},
		[]string{"description", p.Description},
		[]string{"category", p.Category},
		[]string{"createdAt", p.CreatedAt.Local().Format(timeLayout)},
		[]string{"updatedAt", p.UpdatedAt.Local().Format(timeLayout)},
	)
	fmt.Fprintln(w, t.Render())
}

func renderCategory(w io.Writer, c *models.Category) {
	t := newTable("FIELD", "VALUE").Rows(
		[]string{"id", c.ID},
		[]string{"name", c.Name},
		[]string{"description", c.Description},
		[]string{"createdAt", c.CreatedAt.Local().Format(timeLayout)},
		[]string{"updatedAt", c.UpdatedAt.Local().Format(timeLayout)},
	)
	fmt.Fprintln(w, t.Render())
}

func renderSummary(w io.Writer, s view.Summary) {
	fmt.Fprintln(w, titleStyle.Render("Catalog dashboard"))
	fmt.Fprintf(w, "Products: %d   Categories: %d\n", s.Products, s.Categories)

	t := newTable("CATEGORY", "PRODUCTS", "STATUS")
	for _, row := range s.ByCategory {
		status := "ok"
		if !row.Known {
			status = "no such category"
		}
		name := row.Category
		if name == "" {
			name = "(none)"
		}
		t.Row(name, fmt.Sprint(row.Products), status)
	}
	fmt.Fprintln(w, t.Render())
}

func countLabel(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}
