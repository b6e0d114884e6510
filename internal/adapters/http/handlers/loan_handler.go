package handlers

import (
	"errors"

	"pustaka-backend/internal/core/domain"
	"pustaka-backend/internal/core/services"
	"pustaka-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles borrow/return endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// LoanRequest represents a borrow or return request
type LoanRequest struct {
	MemberID string `json:"member_id"`
	BookID   string `json:"book_id"`
}

// Borrow lends a book to a member
func (h *LoanHandler) Borrow(c *fiber.Ctx) error {
	var req LoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.MemberID == "" || req.BookID == "" {
		return response.BadRequest(c, "Member ID and book ID are required")
	}

	message, err := h.loanService.Borrow(c.Context(), req.MemberID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrMemberPenalized):
			return response.Forbidden(c, "Member is currently penalized")
		case errors.Is(err, domain.ErrBorrowLimitReached):
			return response.Forbidden(c, "Member has already borrowed the maximum books")
		case errors.Is(err, domain.ErrBookNotAvailable):
			return response.NotFound(c, "Book is not available for borrowing")
		default:
			return response.InternalServerError(c, "Failed to borrow book")
		}
	}

	return response.Success(c, message, nil)
}

// Return takes a borrowed book back
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	var req LoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.MemberID == "" || req.BookID == "" {
		return response.BadRequest(c, "Member ID and book ID are required")
	}

	message, err := h.loanService.Return(c.Context(), req.MemberID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoActiveLoan):
			return response.NotFound(c, "No active loan found for this book")
		default:
			return response.InternalServerError(c, "Failed to return book")
		}
	}

	return response.Success(c, message, nil)
}
