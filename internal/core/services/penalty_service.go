package services

import (
	"context"
	"errors"
	"time"

	"pustaka-backend/internal/adapters/persistence/models"
	"pustaka-backend/internal/adapters/persistence/repositories"
	"pustaka-backend/internal/core/domain"

	"gorm.io/gorm"
)

// PenaltyService handles the administrative penalty path. Penalty creation
// belongs to the loan engine; this path only inspects and amends records.
type PenaltyService struct {
	penaltyRepo *repositories.PenaltyRepository
}

// NewPenaltyService creates a new penalty service
func NewPenaltyService(penaltyRepo *repositories.PenaltyRepository) *PenaltyService {
	return &PenaltyService{penaltyRepo: penaltyRepo}
}

// GetByID gets a penalty by ID
func (s *PenaltyService) GetByID(ctx context.Context, id string) (*models.Penalty, error) {
	penalty, err := s.penaltyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPenaltyNotFound
		}
		return nil, err
	}
	return penalty, nil
}

// List lists penalties with pagination
func (s *PenaltyService) List(ctx context.Context, offset, limit int) ([]*models.Penalty, int64, error) {
	return s.penaltyRepo.List(ctx, offset, limit)
}

// ListByMember lists a member's penalties
func (s *PenaltyService) ListByMember(ctx context.Context, memberID string) ([]*models.Penalty, error) {
	return s.penaltyRepo.ListByMember(ctx, memberID)
}

// UpdatePenaltyInput represents update penalty input (nil fields are left alone)
type UpdatePenaltyInput struct {
	Status  *bool      `json:"status,omitempty"`
	Reason  *string    `json:"reason,omitempty"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

// Update amends a penalty record
func (s *PenaltyService) Update(ctx context.Context, id string, input *UpdatePenaltyInput) (*models.Penalty, error) {
	penalty, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		penalty.Status = *input.Status
	}
	if input.Reason != nil {
		penalty.Reason = *input.Reason
	}
	if input.EndDate != nil {
		penalty.EndDate = *input.EndDate
	}

	if err := s.penaltyRepo.Update(ctx, penalty); err != nil {
		return nil, err
	}
	return penalty, nil
}

// Delete removes a penalty record
func (s *PenaltyService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.penaltyRepo.Delete(ctx, id)
}
