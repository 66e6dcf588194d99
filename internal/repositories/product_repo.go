package repositories

import (
	"mercado/internal/models"
)

// ProductRepository defines the interface for product data access, including
// the subscriber relation operations the notification flow depends on.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id string) (*models.Product, error)
	GetByIDWithOwner(id string) (*models.Product, error)
	GetByIDWithSubscribers(id string) (*models.Product, error)
	GetAll(offset, limit int) ([]models.Product, error)
	FindByFilter(filter models.ProductFilter) ([]models.Product, error)
	GetByOwner(ownerID string) ([]models.Product, error)
	GetByCategory(categoryID string) ([]models.Product, error)
	Update(product *models.Product) error
	Delete(id string) (int64, error)
	AddSubscriber(productID string, user *models.User) error
	RemoveSubscriber(productID string, user *models.User) error
	GetSubscribers(productID string) ([]models.User, error)
	GetSubscribedProducts(userID string) ([]models.Product, error)
	IsSubscribed(userID, productID string) (bool, error)
}
