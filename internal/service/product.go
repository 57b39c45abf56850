package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/cache"
	"ecommerce-api/internal/dto"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	productCacheTTL     = 5 * time.Minute
	productCachePattern = "products:*"
)

type ProductService interface {
	FindAll(ctx context.Context) ([]*model.Product, error)
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	Create(ctx context.Context, req *dto.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, productID string, req *dto.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, productID string) error
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
	cache       cache.Cache
}

func NewProductService(productRepo repository.ProductRepository, c cache.Cache) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
		cache:       c,
	}
}

func (s *productServiceImpl) FindAll(ctx context.Context) ([]*model.Product, error) {
	const cacheKey = "products:all"

	if s.cache != nil {
		var cached []*model.Product
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	if s.cache != nil {
		// best effort; a cold cache is not an error
		_ = s.cache.Set(ctx, cacheKey, products, productCacheTTL)
	}

	return products, nil
}

func (s *productServiceImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: "product"}
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}

	return product, nil
}

func (s *productServiceImpl) Create(ctx context.Context, req *dto.CreateProductRequest) (*model.Product, error) {
	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    true,
		CategoryID:  req.CategoryID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.invalidate(ctx)
	return product, nil
}

func (s *productServiceImpl) Update(ctx context.Context, productID string, req *dto.UpdateProductRequest) (*model.Product, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}

	if len(fields) > 0 {
		if err := s.productRepo.Updates(ctx, productID, fields); err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
		s.invalidate(ctx)
	}

	return s.FindByID(ctx, productID)
}

func (s *productServiceImpl) Delete(ctx context.Context, productID string) error {
	if _, err := s.FindByID(ctx, productID); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

func (s *productServiceImpl) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.DelPattern(ctx, productCachePattern)
	}
}
