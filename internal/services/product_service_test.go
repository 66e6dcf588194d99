package services_test

import (
	"fmt"
	"testing"
	"time"

	"mercado/internal/models"
	"mercado/internal/repositories"
	"mercado/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDWithOwner(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDWithSubscribers(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetAll(offset, limit int) ([]models.Product, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByFilter(filter models.ProductFilter) ([]models.Product, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByOwner(ownerID string) ([]models.Product, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByCategory(categoryID string) ([]models.Product, error) {
	args := m.Called(categoryID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) AddSubscriber(productID string, user *models.User) error {
	args := m.Called(productID, user)
	return args.Error(0)
}

func (m *MockProductRepository) RemoveSubscriber(productID string, user *models.User) error {
	args := m.Called(productID, user)
	return args.Error(0)
}

func (m *MockProductRepository) GetSubscribers(productID string) ([]models.User, error) {
	args := m.Called(productID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockProductRepository) GetSubscribedProducts(userID string) ([]models.Product, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) IsSubscribed(userID, productID string) (bool, error) {
	args := m.Called(userID, productID)
	return args.Bool(0), args.Error(1)
}

// MockCategoryResolver is a mock implementation of services.CategoryResolver
type MockCategoryResolver struct {
	mock.Mock
}

func (m *MockCategoryResolver) FindOne(term string) (*models.Category, error) {
	args := m.Called(term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryResolver) Notify(categoryID, message string) error {
	args := m.Called(categoryID, message)
	return args.Error(0)
}

// MockMailSender is a mock implementation of services.MailSender
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) SendEmail(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// MockSmsSender is a mock implementation of services.SmsSender
type MockSmsSender struct {
	mock.Mock
}

func (m *MockSmsSender) SendSms(number, body string) error {
	args := m.Called(number, body)
	return args.Error(0)
}

// newProductService wires a ProductService from the given mocks.
func newProductService(repo repositories.ProductRepository, userRepo repositories.UserRepository, categories services.CategoryResolver, mail services.MailSender, sms services.SmsSender) *services.ProductService {
	return services.NewProductService(repo, userRepo, categories, mail, sms)
}

func TestProductService_Create(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockUsers := new(MockUserRepository)
	mockCategories := new(MockCategoryResolver)
	mockMail := new(MockMailSender)
	mockSms := new(MockSmsSender)
	service := newProductService(mockRepo, mockUsers, mockCategories, mockMail, mockSms)

	owner := &models.User{ID: "seller-1", Email: "seller@example.com", Roles: models.RoleList{models.RoleUser, models.RoleSeller}}
	category := &models.Category{ID: uuid.New().String(), Name: "Electronics", Slug: "electronics"}

	mockCategories.On("FindOne", "electronics").Return(category, nil).Once()
	mockCategories.On("Notify", category.ID, mock.AnythingOfType("string")).Return(nil).Once()
	mockUsers.On("GetByID", "seller-1").Return(owner, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.Create(services.ProductCreate{
		Name:       "Phone",
		Cost:       100,
		Categories: []string{"electronics"},
	}, "seller-1")

	assert.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.True(t, product.InStock)
	assert.Equal(t, "seller-1", product.OwnerID)
	assert.Len(t, product.Categories, 1)
	assert.Empty(t, product.Subscribers)
	mockRepo.AssertExpectations(t)
	mockCategories.AssertExpectations(t)
}

func TestProductService_Create_CategoryNotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockUsers := new(MockUserRepository)
	mockCategories := new(MockCategoryResolver)
	service := newProductService(mockRepo, mockUsers, mockCategories, new(MockMailSender), new(MockSmsSender))

	mockCategories.On("FindOne", "electronics").Return(&models.Category{ID: "c1", Name: "Electronics", Slug: "electronics"}, nil).Once()
	mockCategories.On("FindOne", "no-such-category").Return(nil, models.NewNotFoundError("category no-such-category not found")).Once()

	product, err := service.Create(services.ProductCreate{
		Name:       "Phone",
		Cost:       100,
		Categories: []string{"electronics", "no-such-category"},
	}, "seller-1")

	assert.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, models.IsKind(err, models.ErrKindNotFound))
	// The whole creation aborts: nothing may be persisted.
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockCategories.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestProductService_Create_PersistenceFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockUsers := new(MockUserRepository)
	mockCategories := new(MockCategoryResolver)
	service := newProductService(mockRepo, mockUsers, mockCategories, new(MockMailSender), new(MockSmsSender))

	mockCategories.On("FindOne", "electronics").Return(&models.Category{ID: "c1", Name: "Electronics", Slug: "electronics"}, nil).Once()
	mockUsers.On("GetByID", "seller-1").Return(&models.User{ID: "seller-1"}, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).
		Return(models.NewInternalError(fmt.Errorf("database error"))).Once()

	product, err := service.Create(services.ProductCreate{
		Name:       "Phone",
		Cost:       100,
		Categories: []string{"electronics"},
	}, "seller-1")

	assert.Error(t, err)
	assert.Nil(t, product)
	// The original cause is hidden behind a generic internal error.
	assert.True(t, models.IsKind(err, models.ErrKindInternal))
	assert.Equal(t, "internal server error", err.(*models.AppError).Message)
}

func TestClassifyCategoryTerms(t *testing.T) {
	idA := uuid.New().String()
	idB := uuid.New().String()

	// Every term UUID-shaped: the list is matched by id.
	assert.Equal(t, models.FilterCategoriesByID, services.ClassifyCategoryTerms([]string{idA, idB}))
	// Any non-UUID term flips the whole list to slug matching.
	assert.Equal(t, models.FilterCategoriesBySlug, services.ClassifyCategoryTerms([]string{idA, "electronics"}))
	assert.Equal(t, models.FilterCategoriesBySlug, services.ClassifyCategoryTerms([]string{"electronics", "books"}))
}

func TestProductService_FindByFilter_ClassifiesCategories(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockUserRepository), new(MockCategoryResolver), new(MockMailSender), new(MockSmsSender))

	mockRepo.On("FindByFilter", mock.MatchedBy(func(f models.ProductFilter) bool {
		return f.CategoryKind == models.FilterCategoriesBySlug && f.Limit == 10
	})).Return([]models.Product{}, nil).Once()

	_, err := service.FindByFilter(services.ProductFilterInput{Categories: []string{"electronics"}})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Update_NonOwner(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockUserRepository), new(MockCategoryResolver), new(MockMailSender), new(MockSmsSender))

	stored := &models.Product{ID: "p1", Name: "Phone", OwnerID: "seller-1"}
	mockRepo.On("GetByIDWithOwner", "p1").Return(stored, nil).Once()

	newName := "Phone v2"
	product, err := service.Update("p1", services.ProductUpdate{Name: &newName}, "intruder")

	assert.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, models.IsKind(err, models.ErrKindUnauthorized))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestProductService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockUserRepository), new(MockCategoryResolver), new(MockMailSender), new(MockSmsSender))

	mockRepo.On("GetByIDWithOwner", "missing").Return(nil, models.NewNotFoundError("product with ID missing not found")).Once()

	cost := 5.0
	_, err := service.Update("missing", services.ProductUpdate{Cost: &cost}, "seller-1")
	assert.True(t, models.IsKind(err, models.ErrKindNotFound))
}

func TestProductService_Update_RestockNotifiesThrottled(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockUsers := new(MockUserRepository)
	mockMail := new(MockMailSender)
	mockSms := new(MockSmsSender)
	service := newProductService(mockRepo, mockUsers, new(MockCategoryResolver), mockMail, mockSms)

	stored := &models.Product{ID: "p1", Name: "Phone", OwnerID: "seller-1", InStock: false}
	stale := models.User{ID: "u1", Email: "stale@example.com", Phone: "+34600111222", LastNotified: time.Now().Add(-4 * time.Hour)}
	fresh := models.User{ID: "u2", Email: "fresh@example.com", LastNotified: time.Now().Add(-time.Hour)}

	mockRepo.On("GetByIDWithOwner", "p1").Return(stored, nil).Once()
	mockRepo.On("GetByID", "p1").Return(stored, nil).Once()
	mockRepo.On("GetSubscribers", "p1").Return([]models.User{stale, fresh}, nil).Once()
	mockMail.On("SendEmail", "stale@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil).Once()
	mockSms.On("SendSms", "+34600111222", mock.AnythingOfType("string")).Return(nil).Once()
	mockUsers.On("UpdateLastNotified", "u1", mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	inStock := true
	product, err := service.Update("p1", services.ProductUpdate{InStock: &inStock}, "seller-1")

	assert.NoError(t, err)
	assert.True(t, product.InStock)
	// Only the subscriber outside the throttle window is notified.
	mockMail.AssertNumberOfCalls(t, "SendEmail", 1)
	mockSms.AssertNumberOfCalls(t, "SendSms", 1)
	mockMail.AssertNotCalled(t, "SendEmail", "fresh@example.com", mock.Anything, mock.Anything)
	mockMail.AssertExpectations(t)
	mockSms.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

func TestProductService_Update_NotifyFailureDoesNotAbort(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockUsers := new(MockUserRepository)
	mockMail := new(MockMailSender)
	service := newProductService(mockRepo, mockUsers, new(MockCategoryResolver), mockMail, new(MockSmsSender))

	stored := &models.Product{ID: "p1", Name: "Phone", OwnerID: "seller-1", InStock: false}
	subscriber := models.User{ID: "u1", Email: "sub@example.com", LastNotified: time.Now().Add(-5 * time.Hour)}

	mockRepo.On("GetByIDWithOwner", "p1").Return(stored, nil).Once()
	mockRepo.On("GetByID", "p1").Return(stored, nil).Once()
	mockRepo.On("GetSubscribers", "p1").Return([]models.User{subscriber}, nil).Once()
	mockMail.On("SendEmail", "sub@example.com", mock.Anything, mock.Anything).
		Return(fmt.Errorf("smtp gateway down")).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	inStock := true
	_, err := service.Update("p1", services.ProductUpdate{InStock: &inStock}, "seller-1")

	// Notification failures are best-effort and never fail the update.
	assert.NoError(t, err)
	// A failed email must not stamp the throttle timestamp.
	mockUsers.AssertNotCalled(t, "UpdateLastNotified", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Subscribe_Toggle(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	userRepo := repositories.NewMockUserRepository()
	service := newProductService(productRepo, userRepo, new(MockCategoryResolver), new(MockMailSender), new(MockSmsSender))

	buyer := &models.User{ID: uuid.New().String(), Email: "buyer@example.com", Name: "Buyer"}
	assert.NoError(t, userRepo.Create(buyer))
	product := &models.Product{ID: uuid.New().String(), Name: "Phone", OwnerID: "seller-1"}
	assert.NoError(t, productRepo.Create(product))

	// First call subscribes.
	updated, err := service.Subscribe(product.ID, buyer.ID)
	assert.NoError(t, err)
	assert.Len(t, updated.Subscribers, 1)
	assert.Equal(t, buyer.ID, updated.Subscribers[0].ID)

	// Second call with the same user undoes the first.
	updated, err = service.Subscribe(product.ID, buyer.ID)
	assert.NoError(t, err)
	assert.Empty(t, updated.Subscribers)
}

func TestProductService_Subscribe_ProductNotFound(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	userRepo := repositories.NewMockUserRepository()
	service := newProductService(productRepo, userRepo, new(MockCategoryResolver), new(MockMailSender), new(MockSmsSender))

	_, err := service.Subscribe("missing-product", "any-user")
	assert.True(t, models.IsKind(err, models.ErrKindNotFound))
}

func TestProductService_Pagination_PageIndexConvention(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	service := newProductService(productRepo, repositories.NewMockUserRepository(), new(MockCategoryResolver), new(MockMailSender), new(MockSmsSender))

	for i := 0; i < 25; i++ {
		assert.NoError(t, productRepo.Create(&models.Product{
			ID:   fmt.Sprintf("prod-%02d", i),
			Name: fmt.Sprintf("Item %02d", i),
		}))
	}

	// offset is a page index: page 2 with limit 10 skips 20 rows.
	page, err := service.FindAll(2, 10)
	assert.NoError(t, err)
	assert.Len(t, page, 5)

	// The filtered path uses the same convention.
	page, err = service.FindByFilter(services.ProductFilterInput{Name: "Item", Offset: 2, Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, page, 5)
}

func TestProductService_Delete(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	service := newProductService(productRepo, repositories.NewMockUserRepository(), new(MockCategoryResolver), new(MockMailSender), new(MockSmsSender))

	product := &models.Product{ID: uuid.New().String(), Name: "Phone"}
	assert.NoError(t, productRepo.Create(product))

	affected, err := service.Delete(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = service.FindByID(product.ID)
	assert.True(t, models.IsKind(err, models.ErrKindNotFound))

	// Deleting a nonexistent product is a not-found, not a silent no-op.
	_, err = service.Delete(product.ID)
	assert.True(t, models.IsKind(err, models.ErrKindNotFound))
}
