package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"empty cart", apperr.ErrEmptyCart, http.StatusBadRequest},
		{"insufficient stock", &apperr.InsufficientStockError{ProductName: "Thing"}, http.StatusBadRequest},
		{"payment failed", apperr.ErrPaymentFailed, http.StatusBadRequest},
		{"wrapped payment failed", errors.Join(errors.New("confirm"), apperr.ErrPaymentFailed), http.StatusBadRequest},
		{"not found", &apperr.NotFoundError{Entity: "order"}, http.StatusNotFound},
		{"payment not found", apperr.ErrPaymentNotFound, http.StatusNotFound},
		{"stock conflict", apperr.ErrStockConflict, http.StatusConflict},
		{"email taken", service.ErrEmailTaken, http.StatusConflict},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"provider down", &apperr.ProviderError{Op: "create intent", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"echo error", echo.NewHTTPError(http.StatusTeapot, "nope"), http.StatusTeapot},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	handler := errorHandler(zaptest.NewLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

// An order owned by someone else and a missing order must be
// indistinguishable to the caller.
func TestErrorHandler_NotFoundLeaksNothing(t *testing.T) {
	handler := errorHandler(zaptest.NewLogger(t))

	bodies := make([]string, 0, 2)
	for _, err := range []error{
		&apperr.NotFoundError{Entity: "order"},
		&apperr.NotFoundError{Entity: "order"},
	} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler(err, e.NewContext(req, rec))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
}
