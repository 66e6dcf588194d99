package handlers

import (
	"log"
	"strconv"
	"strings"

	"mercado/internal/middleware"
	"mercado/internal/models"
	"mercado/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service     *services.ProductService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, authService *services.AuthService) *ProductHandler {
	return &ProductHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Catalog
// reads are public; subscription endpoints need authentication; mutation
// needs the seller role.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	authed := middleware.AuthRequired(h.authService)
	seller := middleware.AuthRequired(h.authService, models.RoleSeller)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleFindProducts)
	productRoutes.Get("/mine", authed, h.HandleMyProducts)
	productRoutes.Get("/subscribed", authed, h.HandleSubscribed)
	productRoutes.Post("/subscribe", authed, h.HandleSubscribe)
	productRoutes.Get("/issubscribed/:id", authed, h.HandleIsSubscribed)
	productRoutes.Get("/category/:id", h.HandleFindByCategory)
	productRoutes.Post("/", seller, h.HandleCreate)
	productRoutes.Get("/:id", h.HandleFindByID)
	productRoutes.Patch("/:id", seller, h.HandleUpdate)
	productRoutes.Delete("/:id", seller, h.HandleDelete)
}

// parseFilter reads the filter query parameters. The second return value
// reports whether any filter beyond pagination was present, so the handler
// can fall back to the plain paginated list.
func (h *ProductHandler) parseFilter(c *fiber.Ctx) (services.ProductFilterInput, bool, error) {
	input := services.ProductFilterInput{
		Name:   c.Query("name"),
		Offset: c.QueryInt("offset", 0),
		Limit:  c.QueryInt("limit", 10),
	}
	hasFilters := input.Name != ""

	if raw := c.Query("costHigh"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return input, false, models.NewValidationError("costHigh must be a non-negative number")
		}
		input.CostHigh = &value
		hasFilters = true
	}
	if raw := c.Query("costLow"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return input, false, models.NewValidationError("costLow must be a non-negative number")
		}
		input.CostLow = &value
		hasFilters = true
	}
	if raw := c.Query("inStock"); raw != "" {
		switch raw {
		case "true":
			value := true
			input.InStock = &value
		case "false":
			value := false
			input.InStock = &value
		default:
			return input, false, models.NewValidationError("inStock must be true or false")
		}
		hasFilters = true
	}

	// Categories may be repeated or comma-separated.
	for _, raw := range c.Context().QueryArgs().PeekMulti("categories") {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				input.Categories = append(input.Categories, part)
			}
		}
	}
	if len(input.Categories) > 0 {
		hasFilters = true
	}

	return input, hasFilters, nil
}

// HandleFindProducts lists products, filtered when any filter parameter is
// present and plainly paginated otherwise.
func (h *ProductHandler) HandleFindProducts(c *fiber.Ctx) error {
	input, hasFilters, err := h.parseFilter(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var products []models.Product
	if hasFilters {
		products, err = h.service.FindByFilter(input)
	} else {
		products, err = h.service.FindAll(input.Offset, input.Limit)
	}
	if err != nil {
		log.Printf("Error finding products: %v", err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(products)
}

// CreateProductRequest represents the request body for creating a product.
// Category references may be ids or slugs.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Cost        float64  `json:"cost" validate:"gte=0"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Categories  []string `json:"categories" validate:"required,min=1,dive,required"`
	Image       string   `json:"image"`
}

// HandleCreate creates a new product owned by the calling seller.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.Create(services.ProductCreate{
		Name:        req.Name,
		Cost:        req.Cost,
		Description: req.Description,
		Categories:  req.Categories,
		Image:       req.Image,
	}, middleware.CallerID(c))
	if err != nil {
		log.Printf("Error creating product %s: %v", req.Name, err)
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleFindByID retrieves a single product by its ID.
func (h *ProductHandler) HandleFindByID(c *fiber.Ctx) error {
	product, err := h.service.FindByID(c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(product)
}

// HandleFindByCategory retrieves all products in a category.
func (h *ProductHandler) HandleFindByCategory(c *fiber.Ctx) error {
	products, err := h.service.FindByCategory(c.Params("id"))
	if err != nil {
		log.Printf("Error finding products by category %s: %v", c.Params("id"), err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(products)
}

// HandleMyProducts retrieves the caller's own products.
func (h *ProductHandler) HandleMyProducts(c *fiber.Ctx) error {
	products, err := h.service.MyProducts(middleware.CallerID(c))
	if err != nil {
		log.Printf("Error finding owned products: %v", err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(products)
}

// UpdateProductRequest represents the request body for a partial product
// update.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Cost        *float64 `json:"cost" validate:"omitempty,gte=0"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Image       *string  `json:"image"`
	InStock     *bool    `json:"inStock"`
}

// HandleUpdate applies a partial update to a product the caller owns.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.Update(c.Params("id"), services.ProductUpdate{
		Name:        req.Name,
		Cost:        req.Cost,
		Description: req.Description,
		Image:       req.Image,
		InStock:     req.InStock,
	}, middleware.CallerID(c))
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(product)
}

// HandleDelete removes a product and reports the affected-row count.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	affected, err := h.service.Delete(c.Params("id"))
	if err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Product deleted successfully",
		"affected": affected,
	})
}

// SubscribeRequest represents the request body for the subscription toggle.
type SubscribeRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

// HandleSubscribe toggles the caller's subscription to a product.
func (h *ProductHandler) HandleSubscribe(c *fiber.Ctx) error {
	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.Subscribe(req.ProductID, middleware.CallerID(c))
	if err != nil {
		log.Printf("Error toggling subscription for product %s: %v", req.ProductID, err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(product)
}

// HandleIsSubscribed reports whether the caller subscribes to a product.
func (h *ProductHandler) HandleIsSubscribed(c *fiber.Ctx) error {
	subscribed, err := h.service.IsSubscribed(middleware.CallerID(c), c.Params("id"))
	if err != nil {
		log.Printf("Error checking subscription for product %s: %v", c.Params("id"), err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"subscribed": subscribed,
	})
}

// HandleSubscribed retrieves all products the caller subscribes to.
func (h *ProductHandler) HandleSubscribed(c *fiber.Ctx) error {
	products, err := h.service.Subscribed(middleware.CallerID(c))
	if err != nil {
		log.Printf("Error finding subscribed products: %v", err)
		return models.RespondWithError(c, err)
	}
	return c.JSON(products)
}
