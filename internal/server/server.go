package server

import (
	"errors"
	"net/http"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/handler"
	appmiddleware "ecommerce-api/internal/middleware"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	echo            *echo.Echo
	jwtSecret       string
	authHandler     *handler.AuthHandler
	productHandler  *handler.ProductHandler
	categoryHandler *handler.CategoryHandler
	cartHandler     *handler.CartHandler
	orderHandler    *handler.OrderHandler
	paymentHandler  *handler.PaymentHandler
	reviewHandler   *handler.ReviewHandler
}

func NewServer(
	logger *zap.Logger,
	jwtSecret string,
	authService service.AuthService,
	productService service.ProductService,
	categoryService service.CategoryService,
	cartService service.CartService,
	orderService service.OrderService,
	paymentService service.PaymentService,
	reviewService service.ReviewService,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(appmiddleware.Metrics())

	s := &Server{
		echo:            e,
		jwtSecret:       jwtSecret,
		authHandler:     handler.NewAuthHandler(authService),
		productHandler:  handler.NewProductHandler(productService),
		categoryHandler: handler.NewCategoryHandler(categoryService),
		cartHandler:     handler.NewCartHandler(cartService),
		orderHandler:    handler.NewOrderHandler(orderService),
		paymentHandler:  handler.NewPaymentHandler(paymentService),
		reviewHandler:   handler.NewReviewHandler(reviewService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	auth := appmiddleware.Auth(s.jwtSecret)
	admin := appmiddleware.RequireRole(model.RoleAdmin)

	// -------- auth --------
	api.POST("/auth/register", s.authHandler.Register)
	api.POST("/auth/login", s.authHandler.Login)
	api.GET("/users/me", s.authHandler.Me, auth)

	// -------- catalog --------
	api.GET("/products", s.productHandler.List)
	api.GET("/products/:id", s.productHandler.Get)
	api.POST("/products", s.productHandler.Create, auth, admin)
	api.PUT("/products/:id", s.productHandler.Update, auth, admin)
	api.DELETE("/products/:id", s.productHandler.Delete, auth, admin)

	api.GET("/categories", s.categoryHandler.List)
	api.GET("/categories/:id", s.categoryHandler.Get)
	api.POST("/categories", s.categoryHandler.Create, auth, admin)

	// -------- cart --------
	cart := api.Group("/cart", auth)
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("", s.cartHandler.AddItem)
	cart.DELETE("/:id", s.cartHandler.RemoveItem)

	// -------- orders --------
	orders := api.Group("/orders", auth)
	orders.GET("", s.orderHandler.List)
	orders.GET("/:id", s.orderHandler.Get)
	orders.POST("", s.orderHandler.Create)
	orders.PATCH("/:id/status", s.orderHandler.UpdateStatus, admin)

	// -------- payments --------
	api.POST("/payments/create", s.paymentHandler.Create, auth)
	// no auth: driven by the payment provider's redirect / webhook delivery
	api.POST("/payments/confirm/:paymentIntentId", s.paymentHandler.Confirm)

	// -------- reviews --------
	api.GET("/reviews/product/:productId", s.reviewHandler.ListByProduct)
	api.POST("/reviews", s.reviewHandler.Create, auth)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// errorHandler maps the error taxonomy onto HTTP status codes in one place
// so handlers can return service errors as-is.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var (
			httpErr      *echo.HTTPError
			notFound     *apperr.NotFoundError
			insufficient *apperr.InsufficientStockError
			providerErr  *apperr.ProviderError
		)

		switch {
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = httpErr.Error()
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		case errors.As(err, &notFound):
			status = http.StatusNotFound
			message = notFound.Error()
		case errors.Is(err, apperr.ErrPaymentNotFound):
			status = http.StatusNotFound
			message = err.Error()
		case errors.As(err, &insufficient):
			status = http.StatusBadRequest
			message = insufficient.Error()
		case errors.Is(err, apperr.ErrEmptyCart),
			errors.Is(err, apperr.ErrPaymentFailed),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrInvalidRating):
			status = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, apperr.ErrStockConflict),
			errors.Is(err, service.ErrEmailTaken):
			status = http.StatusConflict
			message = err.Error()
		case errors.Is(err, service.ErrInvalidCredentials):
			status = http.StatusUnauthorized
			message = err.Error()
		case errors.As(err, &providerErr):
			status = http.StatusBadGateway
			message = "payment provider unavailable"
		default:
			logger.Error("unhandled error", zap.Error(err))
		}

		if err := c.JSON(status, map[string]string{"error": message}); err != nil {
			logger.Error("write error response", zap.Error(err))
		}
	}
}
