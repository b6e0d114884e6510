package handlers

import (
	"errors"
	"fmt"

	"pustaka-backend/internal/core/domain"
	"pustaka-backend/internal/core/services"
	"pustaka-backend/internal/pkg/pagination"
	"pustaka-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles book CRUD endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// List lists books
func (h *BookHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	books, total, err := h.bookService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully", pagination.NewResponse(books, params, total))
}

// GetByID gets a book by ID
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	book, err := h.bookService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", fiber.Map{
		"book": book,
	})
}

// GetByCode gets a book by the code printed on its spine
func (h *BookHandler) GetByCode(c *fiber.Ctx) error {
	book, err := h.bookService.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", fiber.Map{
		"book": book,
	})
}

// Create registers a new book
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var input services.CreateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if input.Author == "" {
		return response.BadRequest(c, "Author is required")
	}
	if input.TotalStocks < 0 {
		return response.BadRequest(c, "Total stocks must not be negative")
	}

	book, err := h.bookService.Create(c.Context(), &input)
	if err != nil {
		if errors.Is(err, domain.ErrCodeConflict) {
			return response.Conflict(c, "Error creating the book. Please try again.")
		}
		return response.InternalServerError(c, "Failed to create book")
	}

	return response.Created(c, "Book created successfully", fiber.Map{
		"book": book,
	})
}

// Update changes information of a book
func (h *BookHandler) Update(c *fiber.Ctx) error {
	var input services.UpdateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to update book")
	}

	return response.Success(c, "Book updated successfully", fiber.Map{
		"book": book,
	})
}

// Delete removes a book
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	book, err := h.bookService.Delete(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to delete book")
	}

	return response.Success(c, fmt.Sprintf("Book %s deleted successfully", book.Title), nil)
}
