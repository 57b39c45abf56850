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

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type ReviewService interface {
	FindByProduct(ctx context.Context, productID string) ([]*model.Review, error)
	Create(ctx context.Context, userID string, req *dto.CreateReviewRequest) (*model.Review, error)
}

type reviewServiceImpl struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewServiceImpl{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewServiceImpl) FindByProduct(ctx context.Context, productID string) ([]*model.Review, error) {
	return s.reviewRepo.FindByProduct(ctx, productID)
}

func (s *reviewServiceImpl) Create(ctx context.Context, userID string, req *dto.CreateReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	_, err := s.productRepo.FindByID(ctx, req.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: "product"}
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}

	review := &model.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	return review, nil
}
