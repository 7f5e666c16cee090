// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"time"

	"github.com/your-org/shopcart-api/internal/config"
)

// Config returns a valid configuration with cheap bcrypt and test defaults
func Config() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "Shopcart API Test",
			Version:     "test",
			Environment: "test",
		},
		Server: config.ServerConfig{
			Port:           "0",
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
		Database: config.DatabaseConfig{
			Host: "localhost",
			Name: "shopcart_test",
			User: "test",
		},
		Redis: config.RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		JWT: config.JWTConfig{
			Secret:            "test-secret-key-that-is-at-least-32-chars",
			AccessTokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost:         4,
			PasswordMinLength:  6,
			RateLimitPerMinute: 1000,
			CORSAllowedOrigins: []string{"http://localhost:3000"},
			CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
			CORSAllowedHeaders: []string{"Origin", "Content-Type", "Authorization"},
		},
		Logging: config.LoggingConfig{
			Level:  "error",
			Format: "text",
		},
	}
}
