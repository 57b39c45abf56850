package service

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService interface {
	// PlaceOrder converts the user's cart into an immutable order. Order
	// header, line items, stock decrements and the cart clear all commit in
	// one transaction or not at all.
	PlaceOrder(ctx context.Context, userID, shippingAddress string) (*model.Order, error)
	// GetOrder loads an order with its items. A non-empty userID restricts
	// the lookup to orders owned by that user.
	GetOrder(ctx context.Context, orderID, userID string) (*model.Order, error)
	ListOrdersForUser(ctx context.Context, userID string) ([]*model.Order, error)
	// SetStatus overwrites the order status without a transition check. This
	// is an administrative override; any valid status can follow any other.
	SetStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
}

type orderServiceImpl struct {
	db          *gorm.DB
	logger      *zap.Logger
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

func NewOrderService(
	db *gorm.DB,
	logger *zap.Logger,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) OrderService {
	return &orderServiceImpl{
		db:          db,
		logger:      logger,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (s *orderServiceImpl) PlaceOrder(ctx context.Context, userID, shippingAddress string) (*model.Order, error) {
	orderID := uuid.NewString()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartItems, err := s.cartRepo.FindByUser(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(cartItems) == 0 {
			return apperr.ErrEmptyCart
		}

		// Validate the whole cart before touching anything.
		for _, item := range cartItems {
			if item.Product.Stock < item.Quantity {
				return &apperr.InsufficientStockError{ProductName: item.Product.Name}
			}
		}

		total := decimal.Zero
		orderItems := make([]*model.OrderItem, len(cartItems))
		for i, item := range cartItems {
			unitPrice := decimal.NewFromFloat(item.Product.Price)
			total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))

			orderItems[i] = &model.OrderItem{
				ID:        uuid.NewString(),
				OrderID:   orderID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price, // frozen at purchase time
			}
		}

		if err := s.orderRepo.Create(ctx, tx, &model.Order{
			ID:              orderID,
			UserID:          userID,
			TotalAmount:     total.Round(2).InexactFloat64(),
			ShippingAddress: shippingAddress,
			Status:          model.OrderStatusPending,
		}); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		if err := s.orderRepo.CreateItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		for _, item := range cartItems {
			ok, err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				// validation passed above, so a concurrent checkout won the
				// race between our read and this write
				return apperr.ErrStockConflict
			}
		}

		if err := s.cartRepo.Clear(ctx, tx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", orderID),
		zap.String("user_id", userID),
	)

	return s.GetOrder(ctx, orderID, userID)
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID, userID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: "order"}
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	return order, nil
}

func (s *orderServiceImpl) ListOrdersForUser(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}

func (s *orderServiceImpl) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	ok, err := s.orderRepo.UpdateStatus(ctx, s.db, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "order"}
	}

	return s.GetOrder(ctx, orderID, "")
}
