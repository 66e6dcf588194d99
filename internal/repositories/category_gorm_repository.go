package repositories

import (
	"errors"
	"fmt"
	"strings"

	"mercado/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{
		db: db,
	}
}

// Create creates a new category in the database.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		return models.NewInternalError(fmt.Errorf("failed to create category: %w", err))
	}
	return nil
}

// GetAll retrieves a page of categories. The offset is a page index, so the
// query skips offset*limit rows.
func (r *GORMCategoryRepository) GetAll(offset, limit int) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Offset(offset * limit).Limit(limit).Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to get categories: %w", err))
	}
	return categories, nil
}

// GetByID retrieves a single category by its ID from the database.
func (r *GORMCategoryRepository) GetByID(id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(fmt.Sprintf("category with ID %s not found", id))
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get category by ID %s: %w", id, err))
	}
	return &category, nil
}

// GetByNameOrSlug retrieves a category whose uppercased name or slug matches
// the given term, so clients can address categories by either form.
func (r *GORMCategoryRepository) GetByNameOrSlug(term string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("UPPER(name) = ? OR slug = ?", strings.ToUpper(term), strings.ToLower(term)).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(fmt.Sprintf("category %s not found", term))
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get category by term %s: %w", term, err))
	}
	return &category, nil
}

// Update persists the scalar fields of an already-merged category.
func (r *GORMCategoryRepository) Update(category *models.Category) error {
	res := r.db.Model(&models.Category{ID: category.ID}).
		Select("name", "slug", "description").
		Updates(category)
	if res.Error != nil {
		return models.NewInternalError(fmt.Errorf("failed to update category: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(fmt.Sprintf("category with ID %s not found for update", category.ID))
	}
	return nil
}

// Delete deletes a category by its ID from the database.
func (r *GORMCategoryRepository) Delete(id string) error {
	res := r.db.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return models.NewInternalError(fmt.Errorf("failed to delete category: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(fmt.Sprintf("category with ID %s not found for deletion", id))
	}
	return nil
}

// GetInterestedUsers retrieves the users who marked interest in a category.
func (r *GORMCategoryRepository) GetInterestedUsers(categoryID string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Model(&models.User{}).
		Joins("JOIN user_categories uc ON uc.user_id = users.id").
		Where("uc.category_id = ?", categoryID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to get interested users for category %s: %w", categoryID, err))
	}
	return users, nil
}
