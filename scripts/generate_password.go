package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/your-org/shopcart-api/internal/config"
	"github.com/your-org/shopcart-api/internal/pkg/auth"
	"github.com/your-org/shopcart-api/internal/pkg/logger"
)

// Prints a bcrypt hash suitable for customers.password_hash
func main() {
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()

	log := logger.New(config.LoggingConfig{Level: "info", Format: "text"})

	if flag.NArg() < 1 {
		log.Fatal("Usage: go run scripts/generate_password.go [-cost N] <password>")
	}
	password := flag.Arg(0)

	passwords := auth.NewPasswordManager(&config.Config{
		Security: config.SecurityConfig{
			BcryptCost:        *cost,
			PasswordMinLength: 1,
		},
	})

	hash, err := passwords.HashPassword(password)
	if err != nil {
		log.WithError(err).Fatal("Error generating hash")
	}

	if err := passwords.VerifyPassword(password, hash); err != nil {
		log.WithError(err).Fatal("Hash verification failed")
	}

	fmt.Fprintln(os.Stdout, hash)
	log.Info("Hash verified successfully")
}
