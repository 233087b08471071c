package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/rs/zerolog"

	"ecowear/internal/analytics"
	"ecowear/internal/caching"
	"ecowear/internal/config"
	"ecowear/internal/handlers"
	"ecowear/internal/jobs/background"
	"ecowear/internal/middleware"
	"ecowear/internal/repositories"
	"ecowear/internal/services"
	"ecowear/pkg/database"
)

const version = "1.0.0"

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "ecowear").Logger()

	cf, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	jwtSecret := cf.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		logger.Warn().Msg("JWT_SECRET not set, using a generated secret")
	}

	// Database connection and schema
	pool, err := database.NewPool(context.Background(), cf.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(cf.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	logger.Info().Msg("database ready")

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	cartRepo := repositories.NewCartItemRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cf.RedisAddr, cf.RedisPassword, cf.RedisDB)

	// Create services
	authSvc := services.NewAuthService(userRepo, jwtSecret, cf.TokenTTL)
	catalogSvc := services.NewCatalogService(productRepo, cacheSvc)
	cartSvc := services.NewCartService(cartRepo, productRepo)
	checkoutSvc := services.NewCheckoutService(pool, logger)
	dashboardSvc := analytics.NewDashboardService(productRepo, orderRepo, cacheSvc)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	productHandlers := handlers.NewProductHandlers(catalogSvc)
	cartHandlers := handlers.NewCartHandlers(cartSvc)
	orderHandlers := handlers.NewOrderHandlers(checkoutSvc)
	adminHandlers := handlers.NewAdminHandlers(catalogSvc, dashboardSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(dashboardSvc, productRepo, cartRepo,
		cf.StaleCartAge, cf.LowStockThreshold, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)

	// Public catalog routes
	v1.GET("/products", productHandlers.ListProducts)
	v1.GET("/products/featured", productHandlers.FeaturedProducts)
	v1.GET("/products/search", productHandlers.SearchProducts)
	v1.GET("/products/:id", productHandlers.GetProduct)
	v1.GET("/categories/:category/products", productHandlers.ListByCategory)

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))

	protected.GET("/me", authHandlers.Me)

	// Cart routes
	protected.GET("/cart", cartHandlers.GetCart)
	protected.POST("/cart/items", cartHandlers.AddToCart)
	protected.PUT("/cart/items/:productID", cartHandlers.UpdateCartLine)
	protected.DELETE("/cart/items/:productID", cartHandlers.RemoveCartLine)
	protected.DELETE("/cart", cartHandlers.ClearCart)

	// Checkout and orders
	protected.POST("/checkout", orderHandlers.Checkout)
	protected.GET("/orders", orderHandlers.ListOrders)
	protected.GET("/orders/:id", orderHandlers.GetOrder)
	protected.POST("/orders/:id/pay", orderHandlers.PayOrder)
	protected.POST("/orders/:id/cancel", orderHandlers.CancelOrder)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/products", adminHandlers.CreateProduct)
	admin.PUT("/products/:id", adminHandlers.UpdateProduct)
	admin.DELETE("/products/:id", adminHandlers.DeleteProduct)
	admin.GET("/stats", adminHandlers.Stats)
	admin.GET("/dashboard", adminHandlers.Dashboard)

	// Start server
	go func() {
		logger.Info().Str("version", version).Str("port", cf.ServerPort).Msg("server starting")
		if err := e.Start(":" + cf.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}
