package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecommerce-api/internal/cache"
	"ecommerce-api/internal/client"
	"ecommerce-api/internal/config"
	"ecommerce-api/internal/repository"
	"ecommerce-api/internal/server"
	"ecommerce-api/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := client.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	if err := repository.Seed(context.Background(), db); err != nil {
		logger.Fatal("seed database", zap.Error(err))
	}

	var catalogCache cache.Cache
	if cfg.Redis.Addr != "" {
		rdb, err := client.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Fatal("init redis", zap.Error(err))
		}
		catalogCache = cache.NewRedisCache(rdb)
	} else {
		logger.Warn("redis not configured, catalog cache disabled")
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	authService := service.NewAuthService(userRepo, &cfg.JWT)
	productService := service.NewProductService(productRepo, catalogCache)
	categoryService := service.NewCategoryService(categoryRepo)
	cartService := service.NewCartService(db, cartRepo, productRepo)
	orderService := service.NewOrderService(db, logger, cartRepo, productRepo, orderRepo)
	paymentService := service.NewPaymentService(db, logger, stripeClient, orderRepo, paymentRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)

	srv := server.NewServer(
		logger,
		cfg.JWT.Secret,
		authService,
		productService,
		categoryService,
		cartService,
		orderService,
		paymentService,
		reviewService,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	logger.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		logger.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}

func newLogger(logCfg *config.Log) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if logCfg.Format != "json" {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(logCfg.Level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}
