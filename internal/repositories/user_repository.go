package repositories

import (
	"time"

	"mercado/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetAll(offset, limit int) ([]models.User, error)
	FindByName(name string, offset, limit int) ([]models.User, error)
	Update(user *models.User) error
	Delete(id string) error
	UpdateLastNotified(id string, at time.Time) error
}
