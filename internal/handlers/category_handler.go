package handlers

import (
	"log"

	"mercado/internal/middleware"
	"mercado/internal/models"
	"mercado/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service     *services.CategoryService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService, authService *services.AuthService) *CategoryHandler {
	return &CategoryHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the category routes with the Fiber app. Reads are
// public; mutation is admin only.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:term", h.HandleGetCategory)
	categoryRoutes.Post("/", middleware.AuthRequired(h.authService, models.RoleAdmin), h.HandleCreate)
	categoryRoutes.Patch("/:id", middleware.AuthRequired(h.authService, models.RoleAdmin), h.HandleUpdate)
	categoryRoutes.Delete("/:id", middleware.AuthRequired(h.authService, models.RoleAdmin), h.HandleDelete)
}

// CreateCategoryRequest represents the request body for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// HandleCreate creates a new category.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create category request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	category, err := h.service.Create(req.Name, req.Description)
	if err != nil {
		log.Printf("Error creating category %s: %v", req.Name, err)
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleGetCategories retrieves a page of categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 10)

	categories, err := h.service.FindAll(offset, limit)
	if err != nil {
		log.Printf("Error getting categories: %v", err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(categories)
}

// HandleGetCategory retrieves a category by id or slug.
func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.service.FindOne(c.Params("term"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(category)
}

// UpdateCategoryRequest represents the request body for a partial category
// update.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// HandleUpdate applies a partial update to a category; admin only.
func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	category, err := h.service.Update(c.Params("id"), services.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		log.Printf("Error updating category %s: %v", c.Params("id"), err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(category)
}

// HandleDelete removes a category; admin only.
func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id")); err != nil {
		log.Printf("Error deleting category %s: %v", c.Params("id"), err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
	})
}
