package services

import (
	"context"
	"errors"

	"pustaka-backend/internal/adapters/persistence/models"
	"pustaka-backend/internal/adapters/persistence/repositories"
	"pustaka-backend/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryService handles category master data
type CategoryService struct {
	categoryRepo *repositories.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CategoryInput represents create/update category input
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, input *CategoryInput) (*models.Category, error) {
	category := &models.Category{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetByID gets a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// List lists all categories
func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, id string, input *CategoryInput) (*models.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	category.Description = input.Description

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}
