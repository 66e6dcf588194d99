package services

import (
	"fmt"
	"log"

	"mercado/internal/models"
	"mercado/internal/repositories"

	"github.com/google/uuid"
)

// CategoryResolver is the slice of the category service the product service
// depends on: reference resolution at creation time and the best-effort
// interest alert hook.
type CategoryResolver interface {
	FindOne(term string) (*models.Category, error)
	Notify(categoryID, message string) error
}

// ProductService handles business logic related to products: catalog CRUD,
// ownership-gated mutation, dynamic filtering and the subscription /
// notification workflow.
type ProductService struct {
	repo       repositories.ProductRepository
	userRepo   repositories.UserRepository
	categories CategoryResolver
	mail       MailSender
	sms        SmsSender
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, userRepo repositories.UserRepository, categories CategoryResolver, mail MailSender, sms SmsSender) *ProductService {
	return &ProductService{
		repo:       repo,
		userRepo:   userRepo,
		categories: categories,
		mail:       mail,
		sms:        sms,
	}
}

// ProductCreate is the payload for creating a product. Categories holds
// category references, each an id or a slug.
type ProductCreate struct {
	Name        string
	Cost        float64
	Description string
	Categories  []string
	Image       string
}

// Create resolves every category reference, resolves the owner, and persists
// a new product. Any category that fails to resolve aborts the whole
// creation; partial category attachment is not permitted. After the product
// exists, a best-effort interest alert goes out per category.
func (s *ProductService) Create(req ProductCreate, sellerID string) (*models.Product, error) {
	var categories []models.Category
	for _, term := range req.Categories {
		category, err := s.categories.FindOne(term)
		if err != nil {
			return nil, models.NewNotFoundError("category not found")
		}
		categories = append(categories, *category)
	}

	owner, err := s.userRepo.GetByID(sellerID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Cost:        req.Cost,
		Description: req.Description,
		Image:       req.Image,
		InStock:     true,
		OwnerID:     owner.ID,
		Owner:       owner,
		Categories:  categories,
		Subscribers: []models.User{},
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	for _, category := range categories {
		message := fmt.Sprintf("Since you love %s, you may be interested in %s, for only %.2f", category.Name, product.Name, product.Cost)
		if notifyErr := s.categories.Notify(category.ID, message); notifyErr != nil {
			log.Printf("Warning: failed to notify category %s about product %s: %v", category.ID, product.ID, notifyErr)
		}
	}

	return product, nil
}

// FindByID retrieves a single product by its ID.
func (s *ProductService) FindByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// FindAll retrieves a page of products with the default 0/10 pagination.
func (s *ProductService) FindAll(offset, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetAll(offset, limit)
}

// ProductFilterInput is the filter payload as it arrives from the boundary,
// before the category list has been classified.
type ProductFilterInput struct {
	Name       string
	CostHigh   *float64
	CostLow    *float64
	Categories []string
	InStock    *bool
	Offset     int
	Limit      int
}

// ClassifyCategoryTerms decides, for a whole category filter list at once,
// whether it names ids or slugs: if every term is UUID-shaped the list is
// matched by id, otherwise by slug. Mixed lists are not supported and fall
// to the slug side.
func ClassifyCategoryTerms(terms []string) models.CategoryFilterKind {
	for _, term := range terms {
		if !IsUUIDShaped(term) {
			return models.FilterCategoriesBySlug
		}
	}
	return models.FilterCategoriesByID
}

// FindByFilter runs the dynamic filter query. All predicates are
// conjunctive; absent filters impose no constraint.
func (s *ProductService) FindByFilter(input ProductFilterInput) ([]models.Product, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	filter := models.ProductFilter{
		Name:         input.Name,
		CostHigh:     input.CostHigh,
		CostLow:      input.CostLow,
		Categories:   input.Categories,
		CategoryKind: ClassifyCategoryTerms(input.Categories),
		InStock:      input.InStock,
		Offset:       input.Offset,
		Limit:        limit,
	}
	return s.repo.FindByFilter(filter)
}

// ProductUpdate carries the optional fields of a partial product update.
type ProductUpdate struct {
	Name        *string
	Cost        *float64
	Description *string
	Image       *string
	InStock     *bool
}

// Update applies a partial update to a product after checking that the
// caller owns it. Setting the in-stock flag fires a best-effort restock
// alert to the product's subscribers before the merge is applied.
func (s *ProductService) Update(id string, patch ProductUpdate, callerID string) (*models.Product, error) {
	product, err := s.repo.GetByIDWithOwner(id)
	if err != nil {
		return nil, err
	}

	if product.OwnerID != callerID {
		return nil, models.NewUnauthorizedError("users may only update their own products")
	}

	if patch.InStock != nil && *patch.InStock {
		message := fmt.Sprintf("%s has new units available", product.Name)
		if notifyErr := s.Notify(id, message); notifyErr != nil {
			log.Printf("Warning: failed to notify subscribers of product %s: %v", id, notifyErr)
		}
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Cost != nil {
		product.Cost = *patch.Cost
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Image != nil {
		product.Image = *patch.Image
	}
	if patch.InStock != nil {
		product.InStock = *patch.InStock
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product, clearing its category and subscriber relations
// before the row itself goes, and returns the affected-row count.
func (s *ProductService) Delete(id string) (int64, error) {
	return s.repo.Delete(id)
}

// MyProducts retrieves all products owned by a user, with categories loaded.
func (s *ProductService) MyProducts(ownerID string) ([]models.Product, error) {
	return s.repo.GetByOwner(ownerID)
}

// FindByCategory retrieves all products associated with a category id.
func (s *ProductService) FindByCategory(categoryID string) ([]models.Product, error) {
	return s.repo.GetByCategory(categoryID)
}

// Subscribe toggles a user's membership in the product's subscriber set: a
// subscribed user is removed, anyone else is added. Calling it twice returns
// the set to its original state. The updated product is returned with the
// subscriber set loaded.
func (s *ProductService) Subscribe(productID, userID string) (*models.Product, error) {
	if _, err := s.repo.GetByID(productID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	subscribed, err := s.repo.IsSubscribed(userID, productID)
	if err != nil {
		return nil, err
	}

	if subscribed {
		err = s.repo.RemoveSubscriber(productID, user)
	} else {
		err = s.repo.AddSubscriber(productID, user)
	}
	if err != nil {
		return nil, err
	}

	return s.repo.GetByIDWithSubscribers(productID)
}

// IsSubscribed reports whether the user subscribes to the product.
func (s *ProductService) IsSubscribed(userID, productID string) (bool, error) {
	return s.repo.IsSubscribed(userID, productID)
}

// Subscribed retrieves all products the user subscribes to.
func (s *ProductService) Subscribed(userID string) ([]models.Product, error) {
	return s.repo.GetSubscribedProducts(userID)
}

// Notify alerts the product's subscribers. Each subscriber is throttled
// independently on their own last-notified timestamp. It is best-effort: the
// caller logs and discards the returned error, and per-recipient failures
// inside the fan-out never surface at all.
func (s *ProductService) Notify(productID, message string) error {
	if _, err := s.repo.GetByID(productID); err != nil {
		return err
	}
	subscribers, err := s.repo.GetSubscribers(productID)
	if err != nil {
		return err
	}
	dispatchAlerts(subscribers, "This may interest you", message, s.mail, s.sms, s.userRepo)
	return nil
}
