package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every runtime setting. Values come from the environment,
// optionally via a .env file in development.
type Config struct {
	ServerPort       string `mapstructure:"SERVER_PORT"`
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	SecretKey        string `mapstructure:"SECRET_KEY"`
	TokenExpiry      int    `mapstructure:"TOKEN_EXPIRY_MINUTES"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	AllowedOrigins   string `mapstructure:"ALLOWED_ORIGINS"`
	DefaultPageSize  int    `mapstructure:"DEFAULT_PAGE_SIZE"`
	MaxPageSize      int    `mapstructure:"MAX_PAGE_SIZE"`
}

var Cfg Config

// Load reads configuration from the environment into Cfg.
func Load() error {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_URL", "sqlite://learnlab.db")
	viper.SetDefault("TOKEN_EXPIRY_MINUTES", 1440)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DEFAULT_PAGE_SIZE", 20)
	viper.SetDefault("MAX_PAGE_SIZE", 100)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
		// No .env file; environment variables alone are fine.
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	if Cfg.SecretKey == "" {
		return errors.New("SECRET_KEY must be set")
	}
	return nil
}
