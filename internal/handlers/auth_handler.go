package handlers

import (
	"fmt"
	"log"

	"mercado/internal/middleware"
	"mercado/internal/models"
	"mercado/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and user management.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/seller", middleware.AuthRequired(h.authService), h.HandleBecomeSeller)
	authRoutes.Get("/info", middleware.AuthRequired(h.authService), h.HandleMyInfo)
	authRoutes.Get("/info/:id", middleware.AuthRequired(h.authService, models.RoleAdmin), h.HandleUserInfo)
	authRoutes.Get("/users", middleware.AuthRequired(h.authService, models.RoleAdmin), h.HandleListUsers)
	authRoutes.Get("/users/name/:name", middleware.AuthRequired(h.authService, models.RoleAdmin), h.HandleFindByName)
	authRoutes.Put("/", middleware.AuthRequired(h.authService), h.HandleUpdate)
	authRoutes.Delete("/:id", middleware.AuthRequired(h.authService, models.RoleAdmin), h.HandleDelete)
}

// validationFailed builds the per-field error map for a failed validation.
func validationFailed(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// RegisterRequest represents the request body for registration. The user
// model itself never deserializes a password, so the DTO carries it.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user := models.User{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	}
	if err := h.authService.RegisterUser(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		return models.RespondWithError(c, err)
	}

	// For security, do not return the password hash
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// SellerRequest represents the request body for the seller elevation.
type SellerRequest struct {
	Phone    string `json:"phone" validate:"required,min=5"`
	Location string `json:"location" validate:"required,min=2"`
}

// HandleBecomeSeller elevates the caller to the seller role.
func (h *AuthHandler) HandleBecomeSeller(c *fiber.Ctx) error {
	var req SellerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.authService.BecomeSeller(middleware.CallerID(c), req.Phone, req.Location)
	if err != nil {
		log.Printf("Error elevating user to seller: %v", err)
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Seller role granted",
		"user":    user,
	})
}

// HandleMyInfo returns the caller's own profile.
func (h *AuthHandler) HandleMyInfo(c *fiber.Ctx) error {
	user, err := h.authService.GetUserByID(middleware.CallerID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// HandleUserInfo returns any user's profile; admin only.
func (h *AuthHandler) HandleUserInfo(c *fiber.Ctx) error {
	user, err := h.authService.GetUserByID(c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// HandleListUsers returns a page of users; admin only.
func (h *AuthHandler) HandleListUsers(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 10)

	users, err := h.authService.ListUsers(offset, limit)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(users)
}

// HandleFindByName returns a page of users matching a name term; admin only.
func (h *AuthHandler) HandleFindByName(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 10)

	users, err := h.authService.FindUsersByName(c.Params("name"), offset, limit)
	if err != nil {
		log.Printf("Error finding users by name: %v", err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(users)
}

// UpdateUserRequest represents the request body for a partial user update.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	IsActive *bool   `json:"isActive"`
}

// HandleUpdate applies a partial update to the caller's own profile.
func (h *AuthHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.authService.UpdateUser(middleware.CallerID(c), services.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		IsActive: req.IsActive,
	})
	if err != nil {
		log.Printf("Error updating user: %v", err)
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// HandleDelete removes a user; admin only.
func (h *AuthHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.authService.DeleteUser(c.Params("id")); err != nil {
		log.Printf("Error deleting user: %v", err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
