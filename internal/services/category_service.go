package services

import (
	"fmt"

	"mercado/internal/models"
	"mercado/internal/repositories"
)

// CategoryService handles business logic related to categories, including
// the best-effort interest alerts sent to users who follow a category.
type CategoryService struct {
	repo     repositories.CategoryRepository
	userRepo repositories.UserRepository
	mail     MailSender
	sms      SmsSender
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository, userRepo repositories.UserRepository, mail MailSender, sms SmsSender) *CategoryService {
	return &CategoryService{
		repo:     repo,
		userRepo: userRepo,
		mail:     mail,
		sms:      sms,
	}
}

// Create derives the slug from the name and persists a new category.
func (s *CategoryService) Create(name, description string) (*models.Category, error) {
	category := &models.Category{
		Name:        name,
		Slug:        models.Slugify(name),
		Description: description,
	}

	if existing, err := s.repo.GetByNameOrSlug(category.Slug); err == nil && existing != nil {
		return nil, models.NewConflictError(fmt.Sprintf("category '%s' already exists", name))
	}

	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// FindAll retrieves a page of categories with the default 0/10 pagination.
func (s *CategoryService) FindAll(offset, limit int) ([]models.Category, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetAll(offset, limit)
}

// FindOne resolves a category from either its id or its slug/name. A
// UUID-shaped term is looked up by id; anything else is matched
// case-insensitively against the name or the slug. Callers cannot assume
// which form they hold.
func (s *CategoryService) FindOne(term string) (*models.Category, error) {
	if IsUUIDShaped(term) {
		return s.repo.GetByID(term)
	}
	return s.repo.GetByNameOrSlug(term)
}

// CategoryUpdate carries the optional fields of a partial category update.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// Update applies a partial update to a category. Renaming re-derives the
// slug so the alternate key keeps tracking the name.
func (s *CategoryService) Update(id string, patch CategoryUpdate) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		category.Name = *patch.Name
		category.Slug = models.Slugify(*patch.Name)
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete resolves the category by id or slug, then removes it.
func (s *CategoryService) Delete(term string) error {
	category, err := s.FindOne(term)
	if err != nil {
		return err
	}
	return s.repo.Delete(category.ID)
}

// Notify alerts the users interested in a category. It is best-effort: the
// caller logs and discards the returned error, and per-recipient failures
// inside the fan-out never surface at all.
func (s *CategoryService) Notify(categoryID, message string) error {
	users, err := s.repo.GetInterestedUsers(categoryID)
	if err != nil {
		return err
	}
	dispatchAlerts(users, "This may interest you", message, s.mail, s.sms, s.userRepo)
	return nil
}
