package handlers

import (
	"errors"

	"pustaka-backend/internal/adapters/persistence/models"
	"pustaka-backend/internal/core/domain"
	"pustaka-backend/internal/core/services"
	"pustaka-backend/internal/pkg/pagination"
	"pustaka-backend/internal/pkg/password"
	"pustaka-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member CRUD endpoints
type MemberHandler struct {
	memberService  *services.MemberService
	penaltyService *services.PenaltyService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService, penaltyService *services.PenaltyService) *MemberHandler {
	return &MemberHandler{
		memberService:  memberService,
		penaltyService: penaltyService,
	}
}

// List lists members
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	members, total, err := h.memberService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	responses := make([]*models.MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, m.ToResponse())
	}

	return response.Success(c, "Members retrieved successfully", pagination.NewResponse(responses, params, total))
}

// GetByID gets a member by ID
func (h *MemberHandler) GetByID(c *fiber.Ctx) error {
	member, err := h.memberService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// GetByCode gets a member by the code printed on their card
func (h *MemberHandler) GetByCode(c *fiber.Ctx) error {
	member, err := h.memberService.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// Create registers a new member
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var input services.CreateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if input.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if !password.Validate(input.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	member, err := h.memberService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return response.BadRequest(c, "Email is already registered")
		case errors.Is(err, domain.ErrCodeConflict):
			return response.Conflict(c, "Error creating the member. Please try again.")
		default:
			return response.InternalServerError(c, "Failed to create member")
		}
	}

	return response.Created(c, "Member created successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// Update changes information of a member
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	var input services.UpdateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Password != nil && !password.Validate(*input.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	member, err := h.memberService.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrEmailTaken):
			return response.BadRequest(c, "Email is already registered")
		default:
			return response.InternalServerError(c, "Failed to update member")
		}
	}

	return response.Success(c, "Member updated successfully", fiber.Map{
		"member": member.ToResponse(),
	})
}

// Delete removes a member
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	if err := h.memberService.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to delete member")
	}

	return response.Success(c, "Member deleted successfully", nil)
}

// GetPenalties lists a member's penalty history
func (h *MemberHandler) GetPenalties(c *fiber.Ctx) error {
	memberID := c.Params("id")

	if _, err := h.memberService.GetByID(c.Context(), memberID); err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	penalties, err := h.penaltyService.ListByMember(c.Context(), memberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list penalties")
	}

	return response.Success(c, "Penalties retrieved successfully", fiber.Map{
		"penalties": penalties,
	})
}
