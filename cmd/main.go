package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shimpukka/ecommerce-backend/config"
	"github.com/shimpukka/ecommerce-backend/internal/auth"
	"github.com/shimpukka/ecommerce-backend/internal/delivery"
	"github.com/shimpukka/ecommerce-backend/internal/repository"
	"github.com/shimpukka/ecommerce-backend/internal/usecase"
	"github.com/shimpukka/ecommerce-backend/pkg/db"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting E-Commerce API...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations applied.")

	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatalf("Failed to initialize token manager: %v", err)
	}

	// --- Dependency Injection ---
	userRepo := repository.NewPostgresUserRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)
	cartRepo := repository.NewPostgresCartRepository(database, logger)
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	atomicStore := repository.NewAtomicStore(database, logger)
	logger.Info("Repositories initialized.")

	userUseCase := usecase.NewUserUseCase(userRepo, tokenManager, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, logger)
	cartUseCase := usecase.NewCartUseCase(cartRepo, productRepo, logger)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, atomicStore, logger)
	logger.Info("Use cases initialized.")

	authHandler := delivery.NewAuthHandler(userUseCase, logger)
	productHandler := delivery.NewProductHandler(productUseCase, logger)
	cartHandler := delivery.NewCartHandler(cartUseCase, logger)
	orderHandler := delivery.NewOrderHandler(orderUseCase, logger)
	logger.Info("Handlers initialized.")

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(delivery.RequestLogger(logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Welcome to the E-Commerce API!"})
	})

	authMW := delivery.AuthMiddleware(tokenManager, logger)
	adminMW := delivery.RequireAdmin(logger)

	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api, authMW, adminMW)
	cartHandler.RegisterRoutes(api, authMW)
	orderHandler.RegisterRoutes(api, authMW, adminMW)
	logger.Info("Routes registered.")

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Errorf("Failed to start server on port %s: %v", cfg.Port, err)
		os.Exit(1)
	}
}
