package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"mercado/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return models.NewConflictError(fmt.Sprintf("email %s already registered", user.Email))
		}
	}
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by their email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, models.NewNotFoundError(fmt.Sprintf("user with email %s not found", email))
}

// GetByID returns a user by their ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("user with ID %s not found", id))
	}
	return &user, nil
}

// GetAll returns a page of users, skipping offset*limit entries.
func (r *MockUserRepository) GetAll(offset, limit int) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginateUsers(r.sorted(), offset, limit), nil
}

// FindByName returns a page of users whose name contains the given term.
func (r *MockUserRepository) FindByName(name string, offset, limit int) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.User
	for _, user := range r.sorted() {
		if strings.Contains(strings.ToLower(user.Name), strings.ToLower(name)) {
			matched = append(matched, user)
		}
	}
	return paginateUsers(matched, offset, limit), nil
}

// Update modifies an existing user.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return models.NewNotFoundError(fmt.Sprintf("user with ID %s not found for update", user.ID))
	}
	r.users[user.ID] = *user
	return nil
}

// Delete removes a user by their ID.
func (r *MockUserRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return models.NewNotFoundError(fmt.Sprintf("user with ID %s not found for deletion", id))
	}
	delete(r.users, id)
	return nil
}

// UpdateLastNotified stamps the user's throttle timestamp.
func (r *MockUserRepository) UpdateLastNotified(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return models.NewNotFoundError(fmt.Sprintf("user with ID %s not found", id))
	}
	user.LastNotified = at
	r.users[id] = user
	return nil
}

func (r *MockUserRepository) sorted() []models.User {
	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		userList = append(userList, u)
	}
	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})
	return userList
}

func paginateUsers(users []models.User, offset, limit int) []models.User {
	if limit <= 0 {
		limit = 10
	}
	start := offset * limit
	if start >= len(users) {
		return []models.User{}
	}
	end := start + limit
	if end > len(users) {
		end = len(users)
	}
	return users[start:end]
}
