package services

import (
	"fmt"
	"log"
	"time"

	"mercado/internal/models"
	"mercado/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// RegisterUser registers a new user with the default role, hashes their
// password, and saves them to the database.
func (s *AuthService) RegisterUser(user *models.User) error {
	if existingUser, err := s.userRepo.GetByEmail(user.Email); err == nil && existingUser != nil {
		return models.NewConflictError(fmt.Sprintf("email '%s' already registered", user.Email))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(fmt.Errorf("failed to hash password: %w", err))
	}
	user.Password = string(hashedPassword)

	if len(user.Roles) == 0 {
		user.Roles = models.RoleList{models.RoleUser}
	}
	user.IsActive = true

	return s.userRepo.Create(user)
}

// LoginUser authenticates a user and returns a JWT token plus the profile if
// successful. Unknown email, wrong password and inactive accounts all fail
// with the same message so credentials cannot be probed.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", nil, models.NewUnauthorizedError("invalid credentials")
	}

	if !user.IsActive {
		return "", nil, models.NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, models.NewUnauthorizedError("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":     time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, models.NewInternalError(fmt.Errorf("failed to generate token: %w", err))
	}

	user.Password = ""
	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, models.NewUnauthorizedError("invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, models.NewUnauthorizedError("invalid token")
}

// BecomeSeller idempotently adds the seller role and stores the seller-only
// attributes. Calling it for an existing seller just refreshes phone and
// location.
func (s *AuthService) BecomeSeller(userID, phone, location string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if !user.Roles.Has(models.RoleSeller) {
		user.Roles = append(user.Roles, models.RoleSeller)
	}
	user.Phone = phone
	user.Location = location

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *AuthService) GetUserByID(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// ListUsers retrieves a page of users.
func (s *AuthService) ListUsers(offset, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.userRepo.GetAll(offset, limit)
}

// FindUsersByName retrieves a page of users matching a name term.
func (s *AuthService) FindUsersByName(name string, offset, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.userRepo.FindByName(name, offset, limit)
}

// UserUpdate carries the optional fields of a partial user update. Nil
// fields leave the stored value untouched.
type UserUpdate struct {
	Email    *string
	Password *string
	Name     *string
	Phone    *string
	Location *string
	IsActive *bool
}

// UpdateUser applies a partial update to a user.
func (s *AuthService) UpdateUser(id string, patch UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(fmt.Errorf("failed to hash password: %w", err))
		}
		user.Password = string(hashedPassword)
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Location != nil {
		user.Location = *patch.Location
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// DeleteUser removes a user unconditionally. Callers are responsible for
// having detached dependent products first; the store rejects the delete
// otherwise.
func (s *AuthService) DeleteUser(id string) error {
	return s.userRepo.Delete(id)
}
