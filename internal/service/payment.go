package service

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/client"
	"ecommerce-api/internal/dto"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const paymentCurrency = "usd"

type PaymentService interface {
	// InitiatePayment creates a provider payment intent for the order total
	// and records a pending payment. Calling it again for the same order
	// creates a fresh intent and payment row; confirmation is keyed by
	// intent id, so earlier rows simply stay pending.
	InitiatePayment(ctx context.Context, orderID, userID string) (*dto.CreatePaymentResponse, error)
	// ConfirmPayment checks the provider state of the intent and, on
	// success, completes the payment and confirms the order. Confirming an
	// already-completed payment is a no-op success, so webhook redelivery is
	// safe.
	ConfirmPayment(ctx context.Context, intentID string) error
}

type paymentServiceImpl struct {
	db           *gorm.DB
	logger       *zap.Logger
	stripeClient client.StripeClient
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
}

func NewPaymentService(
	db *gorm.DB,
	logger *zap.Logger,
	stripeClient client.StripeClient,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
) PaymentService {
	return &paymentServiceImpl{
		db:           db,
		logger:       logger,
		stripeClient: stripeClient,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
	}
}

func (s *paymentServiceImpl) InitiatePayment(ctx context.Context, orderID, userID string) (*dto.CreatePaymentResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: "order"}
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	amountMinor := decimal.NewFromFloat(order.TotalAmount).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()

	intent, err := s.stripeClient.CreateIntent(ctx, amountMinor, paymentCurrency)
	if err != nil {
		return nil, fmt.Errorf("stripe create intent: %w", err)
	}

	if err := s.paymentRepo.Create(ctx, &model.Payment{
		ID:              uuid.NewString(),
		OrderID:         order.ID,
		Amount:          order.TotalAmount,
		Status:          model.PaymentStatusPending,
		PaymentIntentID: intent.ID,
		PaymentMethod:   "stripe",
	}); err != nil {
		return nil, fmt.Errorf("store payment: %w", err)
	}

	s.logger.Info("payment initiated",
		zap.String("order_id", order.ID),
		zap.String("payment_intent_id", intent.ID),
	)

	return &dto.CreatePaymentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

func (s *paymentServiceImpl) ConfirmPayment(ctx context.Context, intentID string) error {
	payment, err := s.paymentRepo.FindByIntentID(ctx, intentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrPaymentNotFound
	}
	if err != nil {
		return fmt.Errorf("find payment: %w", err)
	}

	// already confirmed earlier; don't touch the order again
	if payment.Status == model.PaymentStatusCompleted {
		return nil
	}

	intent, err := s.stripeClient.RetrieveIntent(ctx, intentID)
	if err != nil {
		return fmt.Errorf("stripe retrieve intent: %w", err)
	}

	if intent.Status != "succeeded" {
		return apperr.ErrPaymentFailed
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, model.PaymentStatusCompleted); err != nil {
			return fmt.Errorf("mark payment completed: %w", err)
		}

		ok, err := s.orderRepo.UpdateStatus(ctx, tx, payment.OrderID, model.OrderStatusConfirmed)
		if err != nil {
			return fmt.Errorf("confirm order: %w", err)
		}
		if !ok {
			return &apperr.NotFoundError{Entity: "order"}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("payment confirmed",
		zap.String("order_id", payment.OrderID),
		zap.String("payment_intent_id", intentID),
	)

	return nil
}
