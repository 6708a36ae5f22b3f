package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL    string        `envconfig:"DATABASE_URL"    required:"true"`
	Port           string        `envconfig:"PORT"            default:":8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL"       default:"info"`
	JWTSecret      string        `envconfig:"JWT_SECRET"      required:"true"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL"       default:"24h"`
	MigrationsPath string        `envconfig:"MIGRATIONS_PATH" default:"migrations"`
}

func LoadConfig(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: Port=%s, LogLevel=%s, TokenTTL=%s", cfg.Port, cfg.LogLevel, cfg.TokenTTL)
	return &cfg, nil
}
