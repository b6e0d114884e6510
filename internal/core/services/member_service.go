package services

import (
	"context"
	"errors"
	"time"

	"pustaka-backend/internal/adapters/persistence/models"
	"pustaka-backend/internal/adapters/persistence/repositories"
	"pustaka-backend/internal/core/domain"
	"pustaka-backend/internal/pkg/codegen"
	"pustaka-backend/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberService handles the plain member CRUD path. The borrow counter and
// penalty reference are owned by the loan engine.
type MemberService struct {
	memberRepo repositories.MemberRepository
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repositories.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// CreateMemberInput represents create member input
type CreateMemberInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Create registers a new member with a hashed password and a derived code
func (s *MemberService) Create(ctx context.Context, input *CreateMemberInput) (*models.Member, error) {
	exists, err := s.memberRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Email:          input.Email,
		Password:       hashed,
		PhoneNumber:    input.PhoneNumber,
		MembershipDate: time.Now(),
		IsActive:       true,
	}

	for attempt := 0; attempt < codeGenMaxAttempts; attempt++ {
		member.Code = codegen.GenerateMemberCode(input.Name, input.Email)

		err := s.memberRepo.Create(ctx, member)
		if err == nil {
			return member, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}

		// The duplicate key may be the email rather than the code, when a
		// concurrent registration won the race after the check above.
		taken, checkErr := s.memberRepo.ExistsByEmail(ctx, input.Email)
		if checkErr != nil {
			return nil, checkErr
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
	}

	return nil, domain.ErrCodeConflict
}

// GetByID gets a member by ID
func (s *MemberService) GetByID(ctx context.Context, id string) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// GetByCode gets a member by its human-readable code
func (s *MemberService) GetByCode(ctx context.Context, code string) (*models.Member, error) {
	member, err := s.memberRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// List lists members with pagination
func (s *MemberService) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	return s.memberRepo.List(ctx, offset, limit)
}

// UpdateMemberInput represents update member input (nil fields are left alone)
type UpdateMemberInput struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// Update replaces the given fields on an existing member
func (s *MemberService) Update(ctx context.Context, id string, input *UpdateMemberInput) (*models.Member, error) {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != member.Email {
		exists, err := s.memberRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
		member.Email = *input.Email
	}
	if input.Name != nil {
		member.Name = *input.Name
	}
	if input.Password != nil {
		hashed, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		member.Password = hashed
	}
	if input.PhoneNumber != nil {
		member.PhoneNumber = *input.PhoneNumber
	}
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes a member
func (s *MemberService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.memberRepo.Delete(ctx, id)
}
