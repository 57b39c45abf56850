package service

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

type CartService interface {
	GetCart(ctx context.Context, userID string) ([]*model.CartItem, error)
	// AddItem adds quantity of a product to the cart. Adding a product
	// already in the cart increments its quantity atomically.
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type cartServiceImpl struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(db *gorm.DB, cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) ([]*model.CartItem, error) {
	return s.cartRepo.FindByUser(ctx, nil, userID)
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	_, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &apperr.NotFoundError{Entity: "product"}
	}
	if err != nil {
		return fmt.Errorf("find product: %w", err)
	}

	return s.cartRepo.Upsert(ctx, &model.CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, itemID string) error {
	ok, err := s.cartRepo.Delete(ctx, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if !ok {
		return &apperr.NotFoundError{Entity: "cart item"}
	}

	return nil
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID string) error {
	return s.cartRepo.Clear(ctx, s.db, userID)
}
