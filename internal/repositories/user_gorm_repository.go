package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mercado/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return models.NewInternalError(fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(fmt.Sprintf("user with email %s not found", email))
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get user by email %s: %w", email, err))
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(fmt.Sprintf("user with ID %s not found", id))
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get user by ID %s: %w", id, err))
	}
	return &user, nil
}

// GetAll retrieves a page of users. The offset is a page index, so the query
// skips offset*limit rows.
func (r *GORMUserRepository) GetAll(offset, limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.Offset(offset * limit).Limit(limit).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to get users: %w", err))
	}
	return users, nil
}

// FindByName retrieves a page of users whose name contains the given term,
// case-insensitively.
func (r *GORMUserRepository) FindByName(name string, offset, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + strings.ToLower(name) + "%"
	if err := r.db.Where("LOWER(name) LIKE ?", pattern).
		Offset(offset * limit).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to find users by name %s: %w", name, err))
	}
	return users, nil
}

// Update persists the scalar fields of an already-merged user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Model(&models.User{ID: user.ID}).
		Select("email", "password", "name", "phone", "location", "roles", "is_active").
		Updates(user)
	if res.Error != nil {
		return models.NewInternalError(fmt.Errorf("failed to update user: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(fmt.Sprintf("user with ID %s not found for update", user.ID))
	}
	return nil
}

// Delete deletes a user by their ID from the database.
func (r *GORMUserRepository) Delete(id string) error {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return models.NewInternalError(fmt.Errorf("failed to delete user: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(fmt.Sprintf("user with ID %s not found for deletion", id))
	}
	return nil
}

// UpdateLastNotified stamps the throttle timestamp after a successful
// notification dispatch.
func (r *GORMUserRepository) UpdateLastNotified(id string, at time.Time) error {
	res := r.db.Model(&models.User{ID: id}).Update("last_notified", at)
	if res.Error != nil {
		return models.NewInternalError(fmt.Errorf("failed to update last notified for user %s: %w", id, res.Error))
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(fmt.Sprintf("user with ID %s not found", id))
	}
	return nil
}
