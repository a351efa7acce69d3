package models

import (
	"strings"
	"time"
)

// Category groups products by name.
type Category struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" bson:"name" gorm:"not null;index"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (c *Category) TableName() string {
	return "categories"
}

func (c *Category) DocumentID() string     { return c.ID }
func (c *Category) AssignID(id string)     { c.ID = id }
func (c *Category) SearchName() string     { return c.Name }
func (c *Category) CreatedTime() time.Time { return c.CreatedAt }
func (c *Category) Stamp(created, updated time.Time) {
	c.CreatedAt = created
	c.UpdatedAt = updated
}

func (c *Category) SortValue(field string) (any, bool) {
	switch field {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "description":
		return c.Description, true
	case "createdAt":
		return c.CreatedAt, true
	case "updatedAt":
		return c.UpdatedAt, true
	}
	return nil, false
}

// CategoryInput is the request body accepted by category create and update.
// An omitted description clears the stored one on update.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description"`
}

func (in CategoryInput) Document() Category {
	return Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
}

// CategoryInputFrom builds the full replacement payload for an existing category.
func CategoryInputFrom(c Category) CategoryInput {
	return CategoryInput{
		Name:        c.Name,
		Description: c.Description,
	}
}
