package models

import (
	"strings"

	"gorm.io/gorm"
)

// Category groups products and tracks the users interested in it.
// The slug is a lowercase alternate key derived from the name, so clients may
// address a category by id or by slug interchangeably.
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(100)"`
	Description string `json:"description" validate:"omitempty,max=500"`

	Products []Product `json:"products,omitempty" gorm:"many2many:product_categories"`
	Users    []User    `json:"users,omitempty" gorm:"many2many:user_categories"` // Interested users

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Slugify derives the slug form of a category name.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
