package service

import (
	"context"
	"testing"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/client"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// fakeStripeClient implements client.StripeClient for testing.
type fakeStripeClient struct {
	intentStatus  string
	createErr     error
	createdAmount int64
	createCalls   int
	retrieveCalls int
	lastIntentID  string
}

func (f *fakeStripeClient) CreateIntent(_ context.Context, amount int64, _ string) (*client.PaymentIntent, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdAmount = amount
	f.lastIntentID = "pi_" + uuid.NewString()
	return &client.PaymentIntent{
		ID:           f.lastIntentID,
		ClientSecret: f.lastIntentID + "_secret",
		Status:       "requires_payment_method",
	}, nil
}

func (f *fakeStripeClient) RetrieveIntent(_ context.Context, intentID string) (*client.PaymentIntent, error) {
	f.retrieveCalls++
	return &client.PaymentIntent{ID: intentID, Status: f.intentStatus}, nil
}

func newPaymentService(t *testing.T, db *gorm.DB, stripe client.StripeClient) PaymentService {
	t.Helper()

	return NewPaymentService(
		db,
		zaptest.NewLogger(t),
		stripe,
		repository.NewOrderRepository(db),
		repository.NewPaymentRepository(db),
	)
}

func createOrder(t *testing.T, db *gorm.DB, userID string, total float64) *model.Order {
	t.Helper()

	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		TotalAmount:     total,
		ShippingAddress: "1 Main St",
		Status:          model.OrderStatusPending,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestInitiatePayment_MinorUnitsAndPendingRow(t *testing.T) {
	db := newTestDB(t)
	stripe := &fakeStripeClient{}
	svc := newPaymentService(t, db, stripe)
	userID := uuid.NewString()
	order := createOrder(t, db, userID, 19.99)

	resp, err := svc.InitiatePayment(context.Background(), order.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, int64(1999), stripe.createdAmount)
	assert.Equal(t, stripe.lastIntentID, resp.PaymentIntentID)
	assert.NotEmpty(t, resp.ClientSecret)

	var payment model.Payment
	require.NoError(t, db.First(&payment, "payment_intent_id = ?", resp.PaymentIntentID).Error)
	assert.Equal(t, order.ID, payment.OrderID)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.InDelta(t, 19.99, payment.Amount, 0.001)
}

func TestInitiatePayment_Repeated_CreatesNewRows(t *testing.T) {
	db := newTestDB(t)
	stripe := &fakeStripeClient{}
	svc := newPaymentService(t, db, stripe)
	userID := uuid.NewString()
	order := createOrder(t, db, userID, 10.00)

	_, err := svc.InitiatePayment(context.Background(), order.ID, userID)
	require.NoError(t, err)
	_, err = svc.InitiatePayment(context.Background(), order.ID, userID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 2, stripe.createCalls)
}

func TestInitiatePayment_ForeignOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(t, db, &fakeStripeClient{})
	order := createOrder(t, db, uuid.NewString(), 10.00)

	_, err := svc.InitiatePayment(context.Background(), order.ID, uuid.NewString())

	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "order", notFound.Entity)
}

func TestInitiatePayment_ProviderDown(t *testing.T) {
	db := newTestDB(t)
	stripe := &fakeStripeClient{
		createErr: &apperr.ProviderError{Op: "create intent", Err: context.DeadlineExceeded},
	}
	svc := newPaymentService(t, db, stripe)
	userID := uuid.NewString()
	order := createOrder(t, db, userID, 10.00)

	_, err := svc.InitiatePayment(context.Background(), order.ID, userID)

	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)

	// nothing persisted locally
	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConfirmPayment_Succeeded(t *testing.T) {
	db := newTestDB(t)
	stripe := &fakeStripeClient{intentStatus: "succeeded"}
	svc := newPaymentService(t, db, stripe)
	userID := uuid.NewString()
	order := createOrder(t, db, userID, 19.99)

	resp, err := svc.InitiatePayment(context.Background(), order.ID, userID)
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPayment(context.Background(), resp.PaymentIntentID))

	var payment model.Payment
	require.NoError(t, db.First(&payment, "payment_intent_id = ?", resp.PaymentIntentID).Error)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)

	var got model.Order
	require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderStatusConfirmed, got.Status)
}

func TestConfirmPayment_SecondCallIsNoOp(t *testing.T) {
	db := newTestDB(t)
	stripe := &fakeStripeClient{intentStatus: "succeeded"}
	svc := newPaymentService(t, db, stripe)
	userID := uuid.NewString()
	order := createOrder(t, db, userID, 19.99)

	resp, err := svc.InitiatePayment(context.Background(), order.ID, userID)
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPayment(context.Background(), resp.PaymentIntentID))
	retrievesAfterFirst := stripe.retrieveCalls

	// push the order forward, then redeliver the confirmation
	require.NoError(t, db.Model(&model.Order{}).Where("id = ?", order.ID).
		Update("status", model.OrderStatusShipped).Error)

	require.NoError(t, svc.ConfirmPayment(context.Background(), resp.PaymentIntentID))

	// short-circuited locally: no provider round-trip, order untouched
	assert.Equal(t, retrievesAfterFirst, stripe.retrieveCalls)
	var got model.Order
	require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderStatusShipped, got.Status)
}

func TestConfirmPayment_ProviderReportsFailure(t *testing.T) {
	db := newTestDB(t)
	stripe := &fakeStripeClient{intentStatus: "requires_payment_method"}
	svc := newPaymentService(t, db, stripe)
	userID := uuid.NewString()
	order := createOrder(t, db, userID, 19.99)

	resp, err := svc.InitiatePayment(context.Background(), order.ID, userID)
	require.NoError(t, err)

	err = svc.ConfirmPayment(context.Background(), resp.PaymentIntentID)
	assert.ErrorIs(t, err, apperr.ErrPaymentFailed)

	// payment stays pending, order stays pending; the caller may retry
	var payment model.Payment
	require.NoError(t, db.First(&payment, "payment_intent_id = ?", resp.PaymentIntentID).Error)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)

	var got model.Order
	require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderStatusPending, got.Status)
}

func TestConfirmPayment_UnknownIntent(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(t, db, &fakeStripeClient{})

	err := svc.ConfirmPayment(context.Background(), "pi_does_not_exist")

	assert.ErrorIs(t, err, apperr.ErrPaymentNotFound)
}
