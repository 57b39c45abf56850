package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderService implements service.OrderService for testing.
type mockOrderService struct {
	placedUserID  string
	placedAddress string
	placeErr      error
}

func (m *mockOrderService) PlaceOrder(_ context.Context, userID, shippingAddress string) (*model.Order, error) {
	m.placedUserID = userID
	m.placedAddress = shippingAddress
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	return &model.Order{ID: "order-1", UserID: userID, Status: model.OrderStatusPending}, nil
}

func (m *mockOrderService) GetOrder(_ context.Context, orderID, userID string) (*model.Order, error) {
	return &model.Order{ID: orderID, UserID: userID}, nil
}

func (m *mockOrderService) ListOrdersForUser(_ context.Context, userID string) ([]*model.Order, error) {
	return nil, nil
}

func (m *mockOrderService) SetStatus(_ context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	return &model.Order{ID: orderID, Status: status}, nil
}

func newCheckoutContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextUserID, "user-1")
	return c, rec
}

func TestCreateOrder(t *testing.T) {
	svc := &mockOrderService{}
	h := NewOrderHandler(svc)

	c, rec := newCheckoutContext(`{"shipping_address":"1 Main St"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", svc.placedUserID)
	assert.Equal(t, "1 Main St", svc.placedAddress)
}

func TestCreateOrder_BlankShippingAddress(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{})

	for _, body := range []string{`{}`, `{"shipping_address":"   "}`} {
		c, _ := newCheckoutContext(body)
		err := h.Create(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"paid-ish"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("order-1")

	err := h.UpdateStatus(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
