package repositories

import (
	"context"
	"time"

	"pustaka-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PenaltyRepository handles the administrative penalty CRUD path.
// The loan engine creates penalties through the LoanGateway, not here.
type PenaltyRepository struct {
	db *gorm.DB
}

// NewPenaltyRepository creates a new penalty repository
func NewPenaltyRepository(db *gorm.DB) *PenaltyRepository {
	return &PenaltyRepository{db: db}
}

// GetByID gets a penalty by ID
func (r *PenaltyRepository) GetByID(ctx context.Context, id string) (*models.Penalty, error) {
	var penalty models.Penalty
	err := r.db.WithContext(ctx).First(&penalty, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &penalty, nil
}

// List lists penalties with pagination
func (r *PenaltyRepository) List(ctx context.Context, offset, limit int) ([]*models.Penalty, int64, error) {
	var penalties []*models.Penalty
	var total int64

	r.db.WithContext(ctx).Model(&models.Penalty{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&penalties).Error

	return penalties, total, err
}

// ListByMember lists penalties for a member
func (r *PenaltyRepository) ListByMember(ctx context.Context, memberID string) ([]*models.Penalty, error) {
	var penalties []*models.Penalty
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&penalties).Error
	return penalties, err
}

// Update updates a penalty
func (r *PenaltyRepository) Update(ctx context.Context, penalty *models.Penalty) error {
	return r.db.WithContext(ctx).Save(penalty).Error
}

// Delete deletes a penalty
func (r *PenaltyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Penalty{}, "id = ?", id).Error
}

// ExpireBefore deactivates active penalties whose window has closed.
// Returns the number of penalties deactivated.
func (r *PenaltyRepository) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Penalty{}).
		Where("status = ? AND end_date < ?", true, now).
		Update("status", false)
	return res.RowsAffected, res.Error
}
