package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"mercado/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("product with ID %s not found", id))
	}
	return &product, nil
}

// GetByIDWithOwner returns a product by its ID. The mock keeps the owner
// inline, so this is the same lookup.
func (r *MockProductRepository) GetByIDWithOwner(id string) (*models.Product, error) {
	return r.GetByID(id)
}

// GetByIDWithSubscribers returns a product by its ID. The mock keeps the
// subscriber set inline, so this is the same lookup.
func (r *MockProductRepository) GetByIDWithSubscribers(id string) (*models.Product, error) {
	return r.GetByID(id)
}

// GetAll returns a page of products, skipping offset*limit entries.
func (r *MockProductRepository) GetAll(offset, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.sorted(), offset, limit), nil
}

// FindByFilter applies the conjunctive filter predicates in memory.
func (r *MockProductRepository) FindByFilter(filter models.ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Product
	for _, p := range r.sorted() {
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.CostHigh != nil && p.Cost > *filter.CostHigh {
			continue
		}
		if filter.CostLow != nil && p.Cost < *filter.CostLow {
			continue
		}
		if filter.InStock != nil && p.InStock != *filter.InStock {
			continue
		}
		if len(filter.Categories) > 0 && !matchesCategories(p, filter) {
			continue
		}
		matched = append(matched, p)
	}
	return paginate(matched, filter.Offset, filter.Limit), nil
}

func matchesCategories(p models.Product, filter models.ProductFilter) bool {
	for _, want := range filter.Categories {
		for _, cat := range p.Categories {
			if filter.CategoryKind == models.FilterCategoriesByID && cat.ID == want {
				return true
			}
			if filter.CategoryKind == models.FilterCategoriesBySlug && cat.Slug == want {
				return true
			}
		}
	}
	return false
}

// GetByOwner returns all products owned by a user.
func (r *MockProductRepository) GetByOwner(ownerID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []models.Product
	for _, p := range r.sorted() {
		if p.OwnerID == ownerID {
			products = append(products, p)
		}
	}
	return products, nil
}

// GetByCategory returns all products associated with a category id.
func (r *MockProductRepository) GetByCategory(categoryID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []models.Product
	for _, p := range r.sorted() {
		for _, cat := range p.Categories {
			if cat.ID == categoryID {
				products = append(products, p)
				break
			}
		}
	}
	return products, nil
}

// Update modifies an existing product's scalar fields.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return models.NewNotFoundError(fmt.Sprintf("product with ID %s not found for update", product.ID))
	}
	existing.Name = product.Name
	existing.Cost = product.Cost
	existing.Description = product.Description
	existing.Image = product.Image
	existing.InStock = product.InStock
	r.products[product.ID] = existing
	return nil
}

// Delete clears the product's relation sets, then removes it.
func (r *MockProductRepository) Delete(id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return 0, models.NewNotFoundError(fmt.Sprintf("product with ID %s not found for deletion", id))
	}
	product.Categories = nil
	product.Subscribers = nil
	r.products[id] = product
	delete(r.products, id)
	return 1, nil
}

// AddSubscriber attaches a user to the product's subscriber set.
func (r *MockProductRepository) AddSubscriber(productID string, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return models.NewNotFoundError(fmt.Sprintf("product with ID %s not found", productID))
	}
	product.Subscribers = append(product.Subscribers, *user)
	r.products[productID] = product
	return nil
}

// RemoveSubscriber detaches a user from the product's subscriber set.
func (r *MockProductRepository) RemoveSubscriber(productID string, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return models.NewNotFoundError(fmt.Sprintf("product with ID %s not found", productID))
	}
	var remaining []models.User
	for _, sub := range product.Subscribers {
		if sub.ID != user.ID {
			remaining = append(remaining, sub)
		}
	}
	product.Subscribers = remaining
	r.products[productID] = product
	return nil
}

// GetSubscribers returns the product's current subscriber set.
func (r *MockProductRepository) GetSubscribers(productID string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("product with ID %s not found", productID))
	}
	return product.Subscribers, nil
}

// GetSubscribedProducts returns all products the user subscribes to.
func (r *MockProductRepository) GetSubscribedProducts(userID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []models.Product
	for _, p := range r.sorted() {
		for _, sub := range p.Subscribers {
			if sub.ID == userID {
				products = append(products, p)
				break
			}
		}
	}
	return products, nil
}

// IsSubscribed reports whether the user is in the product's subscriber set.
func (r *MockProductRepository) IsSubscribed(userID, productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return false, nil
	}
	for _, sub := range product.Subscribers {
		if sub.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

// sorted returns the products ordered by ID so pagination is deterministic.
func (r *MockProductRepository) sorted() []models.Product {
	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].ID < productList[j].ID
	})
	return productList
}

// paginate applies the page-index convention: skip offset*limit, take limit.
func paginate(products []models.Product, offset, limit int) []models.Product {
	if limit <= 0 {
		limit = 10
	}
	start := offset * limit
	if start >= len(products) {
		return []models.Product{}
	}
	end := start + limit
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}
