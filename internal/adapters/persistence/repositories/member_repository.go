package repositories

import (
	"context"

	"pustaka-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository interface.
// CurrentBorrowedBooks and PenaltyID are owned by the loan engine.
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a member by ID with its penalty record
func (r *memberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Preload("Penalty").
		First(&member, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByCode gets a member by its human-readable code
func (r *memberRepository) GetByCode(ctx context.Context, code string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Preload("Penalty").
		Where("code = ?", code).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ExistsByEmail checks if a member with this email already exists
func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// List lists members with pagination
func (r *memberRepository) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	r.db.WithContext(ctx).Model(&models.Member{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Penalty").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error

	return members, total, err
}

// Update updates a member
func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Delete soft deletes a member
func (r *memberRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Member{}, "id = ?", id).Error
}
