package handlers

import (
	"errors"

	"pustaka-backend/internal/core/domain"
	"pustaka-backend/internal/core/services"
	"pustaka-backend/internal/pkg/pagination"
	"pustaka-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PenaltyHandler handles the administrative penalty endpoints
type PenaltyHandler struct {
	penaltyService *services.PenaltyService
}

// NewPenaltyHandler creates a new penalty handler
func NewPenaltyHandler(penaltyService *services.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{penaltyService: penaltyService}
}

// List lists penalties
func (h *PenaltyHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	penalties, total, err := h.penaltyService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list penalties")
	}

	return response.Success(c, "Penalties retrieved successfully", pagination.NewResponse(penalties, params, total))
}

// GetByID gets a penalty by ID
func (h *PenaltyHandler) GetByID(c *fiber.Ctx) error {
	penalty, err := h.penaltyService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPenaltyNotFound) {
			return response.NotFound(c, "Penalty not found")
		}
		return response.InternalServerError(c, "Failed to get penalty")
	}

	return response.Success(c, "Penalty retrieved successfully", fiber.Map{
		"penalty": penalty,
	})
}

// Update amends a penalty record
func (h *PenaltyHandler) Update(c *fiber.Ctx) error {
	var input services.UpdatePenaltyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	penalty, err := h.penaltyService.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		if errors.Is(err, domain.ErrPenaltyNotFound) {
			return response.NotFound(c, "Penalty not found")
		}
		return response.InternalServerError(c, "Failed to update penalty")
	}

	return response.Success(c, "Penalty updated successfully", fiber.Map{
		"penalty": penalty,
	})
}

// Delete removes a penalty record
func (h *PenaltyHandler) Delete(c *fiber.Ctx) error {
	if err := h.penaltyService.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrPenaltyNotFound) {
			return response.NotFound(c, "Penalty not found")
		}
		return response.InternalServerError(c, "Failed to delete penalty")
	}

	return response.Success(c, "Penalty deleted successfully", nil)
}
