package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Role is an access level a user can hold.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// RoleList is a set of roles, persisted as a JSON text column.
type RoleList []Role

// Value implements driver.Valuer so GORM can persist the role set.
func (r RoleList) Value() (driver.Value, error) {
	if r == nil {
		r = RoleList{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal roles: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner to read the role set back from the database.
func (r *RoleList) Scan(value interface{}) error {
	if value == nil {
		*r = RoleList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for roles column", value)
	}
	return json.Unmarshal(data, r)
}

// Has reports whether the list contains the given role.
func (r RoleList) Has(role Role) bool {
	for _, have := range r {
		if have == role {
			return true
		}
	}
	return false
}

// HasAny reports whether the list intersects the required set.
// An empty required set means any authenticated user qualifies.
func (r RoleList) HasAny(required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		if r.Has(want) {
			return true
		}
	}
	return false
}

// User represents an account in the marketplace. Sellers additionally carry
// a phone and location, set when they are elevated via the seller flow.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password     string    `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // Never serialized
	Name         string    `json:"name" validate:"required,min=2,max=100"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	Roles        RoleList  `json:"roles" gorm:"type:text"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	LastNotified time.Time `json:"-"` // Throttle bookkeeping for notifications

	Products      []Product  `json:"products,omitempty" gorm:"foreignKey:OwnerID"`                 // Owned (as seller)
	Subscriptions []Product  `json:"subscriptions,omitempty" gorm:"many2many:product_subscribers"` // Followed products
	Categories    []Category `json:"categories,omitempty" gorm:"many2many:user_categories"`        // Interest tracking

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
