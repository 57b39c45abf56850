package service

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/dto"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryService interface {
	FindAll(ctx context.Context) ([]*model.Category, error)
	FindByID(ctx context.Context, categoryID string) (*model.Category, error)
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*model.Category, error)
}

type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryServiceImpl{
		categoryRepo: categoryRepo,
	}
}

func (s *categoryServiceImpl) FindAll(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *categoryServiceImpl) FindByID(ctx context.Context, categoryID string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: "category"}
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}

	return category, nil
}

func (s *categoryServiceImpl) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*model.Category, error) {
	category := &model.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}
