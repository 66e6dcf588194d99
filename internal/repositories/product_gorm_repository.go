package repositories

import (
	"errors"
	"fmt"
	"strings"

	"mercado/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create creates a new product with its category associations.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return models.NewInternalError(fmt.Errorf("failed to create product: %w", err))
	}
	return nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(fmt.Sprintf("product with ID %s not found", id))
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get product by ID %s: %w", id, err))
	}
	return &product, nil
}

// GetByIDWithOwner retrieves a product with its owner relation loaded, used
// by the ownership check on update.
func (r *GORMProductRepository) GetByIDWithOwner(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Owner").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(fmt.Sprintf("product with ID %s not found", id))
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get product by ID %s: %w", id, err))
	}
	return &product, nil
}

// GetByIDWithSubscribers retrieves a product with its subscriber set loaded.
func (r *GORMProductRepository) GetByIDWithSubscribers(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Subscribers").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(fmt.Sprintf("product with ID %s not found", id))
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get product by ID %s: %w", id, err))
	}
	return &product, nil
}

// GetAll retrieves a page of products. The offset is a page index, so the
// query skips offset*limit rows.
func (r *GORMProductRepository) GetAll(offset, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Offset(offset * limit).Limit(limit).Find(&products).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to get products: %w", err))
	}
	return products, nil
}

// FindByFilter assembles the conjunctive filter query. Absent fields impose
// no constraint; the category list is matched by id or by slug depending on
// the kind the service classified it as.
func (r *GORMProductRepository) FindByFilter(filter models.ProductFilter) ([]models.Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	query := r.db.Model(&models.Product{})

	if len(filter.Categories) > 0 {
		query = query.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Joins("JOIN categories ON categories.id = pc.category_id").
			Distinct("products.*")
		if filter.CategoryKind == models.FilterCategoriesByID {
			query = query.Where("categories.id IN ?", filter.Categories)
		} else {
			query = query.Where("categories.slug IN ?", filter.Categories)
		}
	}
	if filter.Name != "" {
		query = query.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.CostHigh != nil {
		query = query.Where("products.cost <= ?", *filter.CostHigh)
	}
	if filter.CostLow != nil {
		query = query.Where("products.cost >= ?", *filter.CostLow)
	}
	if filter.InStock != nil {
		query = query.Where("products.in_stock = ?", *filter.InStock)
	}

	var products []models.Product
	if err := query.Offset(filter.Offset * limit).Limit(limit).Find(&products).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to filter products: %w", err))
	}
	return products, nil
}

// GetByOwner retrieves all products owned by a user, with categories loaded.
func (r *GORMProductRepository) GetByOwner(ownerID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Categories").Where("owner_id = ?", ownerID).Find(&products).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to get products for owner %s: %w", ownerID, err))
	}
	return products, nil
}

// GetByCategory retrieves all products associated with a category id.
func (r *GORMProductRepository) GetByCategory(categoryID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Model(&models.Product{}).
		Joins("JOIN product_categories pc ON pc.product_id = products.id").
		Where("pc.category_id = ?", categoryID).
		Find(&products).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to get products for category %s: %w", categoryID, err))
	}
	return products, nil
}

// Update persists the scalar fields of an already-merged product. The owner
// column is deliberately excluded: ownership is immutable after creation.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Model(&models.Product{ID: product.ID}).
		Select("name", "cost", "description", "image", "in_stock").
		Updates(product)
	if res.Error != nil {
		return models.NewInternalError(fmt.Errorf("failed to update product: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(fmt.Sprintf("product with ID %s not found for update", product.ID))
	}
	return nil
}

// Delete removes a product and its relation rows in a single transaction.
// The category and subscriber join rows are cleared before the row itself is
// removed, so no dangling references can survive the delete.
func (r *GORMProductRepository) Delete(id string) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError(fmt.Sprintf("product with ID %s not found for deletion", id))
			}
			return models.NewInternalError(fmt.Errorf("failed to load product %s for deletion: %w", id, err))
		}
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return models.NewInternalError(fmt.Errorf("failed to clear categories for product %s: %w", id, err))
		}
		if err := tx.Model(&product).Association("Subscribers").Clear(); err != nil {
			return models.NewInternalError(fmt.Errorf("failed to clear subscribers for product %s: %w", id, err))
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return models.NewInternalError(fmt.Errorf("failed to delete product %s: %w", id, res.Error))
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// AddSubscriber attaches a user to the product's subscriber set.
func (r *GORMProductRepository) AddSubscriber(productID string, user *models.User) error {
	if err := r.db.Model(&models.Product{ID: productID}).Association("Subscribers").Append(user); err != nil {
		return models.NewInternalError(fmt.Errorf("failed to add subscriber to product %s: %w", productID, err))
	}
	return nil
}

// RemoveSubscriber detaches a user from the product's subscriber set.
func (r *GORMProductRepository) RemoveSubscriber(productID string, user *models.User) error {
	if err := r.db.Model(&models.Product{ID: productID}).Association("Subscribers").Delete(user); err != nil {
		return models.NewInternalError(fmt.Errorf("failed to remove subscriber from product %s: %w", productID, err))
	}
	return nil
}

// GetSubscribers retrieves the current subscriber set of a product.
func (r *GORMProductRepository) GetSubscribers(productID string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Model(&models.Product{ID: productID}).Association("Subscribers").Find(&users); err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to get subscribers for product %s: %w", productID, err))
	}
	return users, nil
}

// GetSubscribedProducts retrieves all products the user subscribes to.
func (r *GORMProductRepository) GetSubscribedProducts(userID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Model(&models.Product{}).
		Joins("JOIN product_subscribers ps ON ps.product_id = products.id").
		Where("ps.user_id = ?", userID).
		Find(&products).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to get subscribed products for user %s: %w", userID, err))
	}
	return products, nil
}

// IsSubscribed reports whether the user is in the product's subscriber set,
// via a join existence check.
func (r *GORMProductRepository) IsSubscribed(userID, productID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).
		Joins("JOIN product_subscribers ps ON ps.product_id = products.id").
		Where("ps.user_id = ? AND products.id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(fmt.Errorf("failed to check subscription for user %s on product %s: %w", userID, productID, err))
	}
	return count > 0, nil
}
