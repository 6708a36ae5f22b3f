// Seeds an admin account and a few demo products so a fresh database is
// usable right away. Safe to re-run: existing rows are left alone.
package main

import (
	"errors"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/shimpukka/ecommerce-backend/config"
	"github.com/shimpukka/ecommerce-backend/internal/domain"
	"github.com/shimpukka/ecommerce-backend/internal/repository"
	"github.com/shimpukka/ecommerce-backend/pkg/db"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewPostgresUserRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)

	adminEmail := getEnv("ADMIN_EMAIL", "admin@example.com")
	adminPassword := getEnv("ADMIN_PASSWORD", "admin12345")

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &domain.User{
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if _, err := userRepo.CreateUser(admin); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			logger.Infof("Admin user %s already exists, skipping", adminEmail)
		} else {
			logger.Fatalf("Failed to create admin user: %v", err)
		}
	} else {
		logger.Infof("Admin user created: %s (ID %d)", admin.Email, admin.ID)
	}

	products := []domain.Product{
		{Name: "Laptop", Description: "15-inch laptop, 16GB RAM", Price: decimal.NewFromFloat(999.99), Stock: 10},
		{Name: "Wireless Mouse", Description: "Ergonomic wireless mouse", Price: decimal.NewFromFloat(24.50), Stock: 100},
		{Name: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Price: decimal.NewFromFloat(89.00), Stock: 40},
		{Name: "USB-C Hub", Description: "7-in-1 hub with HDMI", Price: decimal.NewFromFloat(39.90), Stock: 60},
	}

	existing, err := productRepo.ListProducts(1, 0)
	if err != nil {
		logger.Fatalf("Failed to check existing products: %v", err)
	}
	if len(existing) > 0 {
		logger.Info("Products already present, skipping product seed")
		return
	}

	for i := range products {
		if _, err := productRepo.CreateProduct(&products[i]); err != nil {
			logger.Fatalf("Failed to seed product '%s': %v", products[i].Name, err)
		}
		logger.Infof("Seeded product: %s (ID %d)", products[i].Name, products[i].ID)
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
