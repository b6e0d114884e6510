package handlers

import (
	"errors"

	"pustaka-backend/internal/core/domain"
	"pustaka-backend/internal/core/services"
	"pustaka-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles category master data endpoints
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List lists all categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list categories")
	}

	return response.Success(c, "Categories retrieved successfully", fiber.Map{
		"categories": categories,
	})
}

// GetByID gets a category by ID
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	category, err := h.categoryService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return response.NotFound(c, "Category not found")
		}
		return response.InternalServerError(c, "Failed to get category")
	}

	return response.Success(c, "Category retrieved successfully", fiber.Map{
		"category": category,
	})
}

// Create creates a new category
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	category, err := h.categoryService.Create(c.Context(), &input)
	if err != nil {
		return response.InternalServerError(c, "Failed to create category")
	}

	return response.Created(c, "Category created successfully", fiber.Map{
		"category": category,
	})
}

// Update updates a category
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	category, err := h.categoryService.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return response.NotFound(c, "Category not found")
		}
		return response.InternalServerError(c, "Failed to update category")
	}

	return response.Success(c, "Category updated successfully", fiber.Map{
		"category": category,
	})
}

// Delete removes a category
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.categoryService.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return response.NotFound(c, "Category not found")
		}
		return response.InternalServerError(c, "Failed to delete category")
	}

	return response.Success(c, "Category deleted successfully", nil)
}
