package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"mercado/internal/models"

	"github.com/google/uuid"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories map[string]models.Category
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[string]models.Category),
	}
}

// Create adds a new category.
func (r *MockCategoryRepository) Create(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	for _, existing := range r.categories {
		if existing.Slug == category.Slug {
			return models.NewConflictError(fmt.Sprintf("category with slug %s already exists", category.Slug))
		}
	}
	r.categories[category.ID] = *category
	return nil
}

// GetAll returns a page of categories, skipping offset*limit entries.
func (r *MockCategoryRepository) GetAll(offset, limit int) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	categoryList := r.sorted()
	start := offset * limit
	if start >= len(categoryList) {
		return []models.Category{}, nil
	}
	end := start + limit
	if end > len(categoryList) {
		end = len(categoryList)
	}
	return categoryList[start:end], nil
}

// GetByID returns a category by its ID.
func (r *MockCategoryRepository) GetByID(id string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("category with ID %s not found", id))
	}
	return &category, nil
}

// GetByNameOrSlug returns a category whose name or slug matches the term,
// case-insensitively.
func (r *MockCategoryRepository) GetByNameOrSlug(term string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, category := range r.categories {
		if strings.EqualFold(category.Name, term) || category.Slug == strings.ToLower(term) {
			c := category
			return &c, nil
		}
	}
	return nil, models.NewNotFoundError(fmt.Sprintf("category %s not found", term))
}

// Update modifies an existing category.
func (r *MockCategoryRepository) Update(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return models.NewNotFoundError(fmt.Sprintf("category with ID %s not found for update", category.ID))
	}
	r.categories[category.ID] = *category
	return nil
}

// Delete removes a category by its ID.
func (r *MockCategoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return models.NewNotFoundError(fmt.Sprintf("category with ID %s not found for deletion", id))
	}
	delete(r.categories, id)
	return nil
}

// GetInterestedUsers returns the users who marked interest in the category.
func (r *MockCategoryRepository) GetInterestedUsers(categoryID string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[categoryID]
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("category with ID %s not found", categoryID))
	}
	return category.Users, nil
}

func (r *MockCategoryRepository) sorted() []models.Category {
	categoryList := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categoryList = append(categoryList, c)
	}
	sort.Slice(categoryList, func(i, j int) bool {
		return categoryList[i].ID < categoryList[j].ID
	})
	return categoryList
}
