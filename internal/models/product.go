package models

import "gorm.io/gorm"

// Product represents an item offered by a seller. The owner is set exactly
// once at creation and is authoritative for update/delete authorization.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Image       string  `json:"image"`
	InStock     bool    `json:"inStock"`
	OwnerID     string  `json:"ownerId" gorm:"type:varchar(36);index"`
	Owner       *User   `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`

	Categories  []Category `json:"categories,omitempty" gorm:"many2many:product_categories"`
	Subscribers []User     `json:"subscribers,omitempty" gorm:"many2many:product_subscribers"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// CategoryFilterKind tells the repository how a category filter list should
// be matched. The whole list is classified as one kind; mixed id/slug lists
// are not supported.
type CategoryFilterKind int

const (
	// FilterCategoriesBySlug matches the list against category slugs.
	FilterCategoriesBySlug CategoryFilterKind = iota
	// FilterCategoriesByID matches the list against category ids.
	FilterCategoriesByID
)

// ProductFilter carries the conjunctive predicates for a filtered product
// search. Zero/nil fields impose no constraint. Offset is a page index:
// the query skips Offset*Limit rows.
type ProductFilter struct {
	Name         string
	CostHigh     *float64
	CostLow      *float64
	Categories   []string
	CategoryKind CategoryFilterKind
	InStock      *bool
	Offset       int
	Limit        int
}
