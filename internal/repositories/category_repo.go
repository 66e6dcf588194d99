package repositories

import (
	"mercado/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Create(category *models.Category) error
	GetAll(offset, limit int) ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	GetByNameOrSlug(term string) (*models.Category, error)
	Update(category *models.Category) error
	Delete(id string) error
	GetInterestedUsers(categoryID string) ([]models.User, error)
}
