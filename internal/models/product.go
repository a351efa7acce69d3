package models

import (
	"strings"
	"time"
)

// Product represents a catalog product.
// Category is a soft reference to a Category name; it is not checked on write.
type Product struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" bson:"name" gorm:"not null;index"`
	Price       float64   `json:"price" bson:"price" gorm:"not null"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) DocumentID() string     { return p.ID }
func (p *Product) AssignID(id string)     { p.ID = id }
func (p *Product) SearchName() string     { return p.Name }
func (p *Product) CreatedTime() time.Time { return p.CreatedAt }
func (p *Product) Stamp(created, updated time.Time) {
	p.CreatedAt = created
	p.UpdatedAt = updated
}

// SortValue returns the value used to order products by the given JSON field.
func (p *Product) SortValue(field string) (any, bool) {
	switch field {
	case "id":
		return p.ID, true
	case "name":
		return p.Name, true
	case "price":
		return p.Price, true
	case "description":
		return p.Description, true
	case "category":
		return p.Category, true
	case "createdAt":
		return p.CreatedAt, true
	case "updatedAt":
		return p.UpdatedAt, true
	}
	return nil, false
}

// ProductInput is the request body accepted by product create and update.
// Every field is required; price may be sent as a number or a numeric string.
type ProductInput struct {
	Name        string `json:"name" validate:"required,notblank"`
	Price       Amount `json:"price" validate:"required,amount"`
	Description string `json:"description" validate:"required,notblank"`
	Category    string `json:"category" validate:"required,notblank"`
}

// Document converts a validated input into the stored representation.
func (in ProductInput) Document() Product {
	return Product{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price.Float64(),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
	}
}

// ProductInputFrom builds the full replacement payload for an existing product.
func ProductInputFrom(p Product) ProductInput {
	return ProductInput{
		Name:        p.Name,
		Price:       NewAmount(p.Price),
		Description: p.Description,
		Category:    p.Category,
	}
}
