package services

import (
	"context"
	"errors"

	"pustaka-backend/internal/adapters/persistence/models"
	"pustaka-backend/internal/adapters/persistence/repositories"
	"pustaka-backend/internal/core/domain"
	"pustaka-backend/internal/pkg/codegen"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// codeGenMaxAttempts bounds the regenerate-and-retry loop when a generated
// code collides with an existing one.
const codeGenMaxAttempts = 3

// BookService handles the plain book CRUD path. Stock counters are set at
// creation and afterwards belong to the loan engine.
type BookService struct {
	bookRepo repositories.BookRepository
}

// NewBookService creates a new book service
func NewBookService(bookRepo repositories.BookRepository) *BookService {
	return &BookService{bookRepo: bookRepo}
}

// CreateBookInput represents create book input
type CreateBookInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Author      string  `json:"author"`
	TotalStocks int     `json:"total_stocks"`
	CategoryID  *string `json:"category_id,omitempty"`
}

// Create registers a new book. The code is derived from author and title;
// on a uniqueness collision a fresh code is generated a bounded number of
// times before giving up with a conflict.
func (s *BookService) Create(ctx context.Context, input *CreateBookInput) (*models.Book, error) {
	book := &models.Book{
		ID:              uuid.NewString(),
		Title:           input.Title,
		Description:     input.Description,
		Author:          input.Author,
		TotalStocks:     input.TotalStocks,
		AvailableStocks: input.TotalStocks,
		IsAvailable:     input.TotalStocks > 0,
		CategoryID:      input.CategoryID,
	}

	for attempt := 0; attempt < codeGenMaxAttempts; attempt++ {
		book.Code = codegen.GenerateBookCode(input.Author, input.Title)

		err := s.bookRepo.Create(ctx, book)
		if err == nil {
			return book, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}

	return nil, domain.ErrCodeConflict
}

// GetByID gets a book by ID
func (s *BookService) GetByID(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// GetByCode gets a book by its human-readable code
func (s *BookService) GetByCode(ctx context.Context, code string) (*models.Book, error) {
	book, err := s.bookRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// List lists books with pagination
func (s *BookService) List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	return s.bookRepo.List(ctx, offset, limit)
}

// UpdateBookInput represents update book input (nil fields are left alone)
type UpdateBookInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Author      *string `json:"author,omitempty"`
	TotalStocks *int    `json:"total_stocks,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// Update replaces the given fields on an existing book
func (s *BookService) Update(ctx context.Context, id string, input *UpdateBookInput) (*models.Book, error) {
	book, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.TotalStocks != nil {
		book.TotalStocks = *input.TotalStocks
		if book.AvailableStocks > book.TotalStocks {
			book.AvailableStocks = book.TotalStocks
		}
	}
	if input.CategoryID != nil {
		book.CategoryID = input.CategoryID
	}
	if input.IsAvailable != nil {
		book.IsAvailable = *input.IsAvailable
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes a book
func (s *BookService) Delete(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return book, nil
}
