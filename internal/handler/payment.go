package handler

import (
	"net/http"

	"ecommerce-api/internal/dto"
	"ecommerce-api/internal/middleware"
	"ecommerce-api/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.OrderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order_id is required")
	}

	result, err := h.paymentService.InitiatePayment(ctx, req.OrderID, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.paymentService.ConfirmPayment(ctx, c.Param("paymentIntentId")); err != nil {
		middleware.CountPaymentConfirmed("failed")
		return err
	}

	middleware.CountPaymentConfirmed("succeeded")

	return c.JSON(http.StatusOK, &dto.ConfirmPaymentResponse{Success: true})
}
