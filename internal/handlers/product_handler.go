package handlers

import (
	"errors"
	"log"

	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/:term", h.HandleFindByTerm)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Patch("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleRemove)
}

// CreateProductRequest represents the request body for product creation.
// Image URLs arrive already stored by the upload collaborator.
type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required,min=1"`
	Price       float64  `json:"price" validate:"gte=0"`
	Description string   `json:"description"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Sizes       []string `json:"sizes"`
	Gender      string   `json:"gender" validate:"required"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images" validate:"omitempty,dive,min=1"`
}

// UpdateProductRequest represents the request body for a partial update.
// Absent fields are left untouched; a present images field replaces the
// product's whole image set.
type UpdateProductRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Description *string   `json:"description"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	Sizes       *[]string `json:"sizes"`
	Gender      *string   `json:"gender" validate:"omitempty,min=1"`
	Tags        *[]string `json:"tags"`
	Images      *[]string `json:"images" validate:"omitempty,dive,min=1"`
}

func owner(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.UserKey).(*models.User)
	return user
}

// HandleCreate creates a new product owned by the authenticated user.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	user := owner(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	product := &models.Product{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
		Sizes:       req.Sizes,
		Gender:      req.Gender,
		Tags:        req.Tags,
	}
	created, err := h.service.Create(product, req.Images, user)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleList returns a page of products. Defaults: limit 10, offset 0.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || offset < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "limit must be positive and offset non-negative",
		})
	}

	products, err := h.service.ListPage(limit, offset)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(products)
}

// HandleFindByTerm resolves an id, title, or slug to a single product.
func (h *ProductHandler) HandleFindByTerm(c *fiber.Ctx) error {
	product, err := h.service.FindByTerm(c.Params("term"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(product)
}

// HandleUpdate applies a partial update, optionally replacing the image set.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	user := owner(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	patch := &models.ProductPatch{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Stock:       req.Stock,
		Sizes:       req.Sizes,
		Gender:      req.Gender,
		Tags:        req.Tags,
		Images:      req.Images,
	}
	updated, err := h.service.Update(c.Params("id"), patch, user)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(updated)
}

// HandleRemove deletes a product and its images.
func (h *ProductHandler) HandleRemove(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Remove(id); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted",
		"id":      id,
	})
}

// errorResponse maps service errors onto HTTP statuses.
func (h *ProductHandler) errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, repositories.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrDeleteFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}
