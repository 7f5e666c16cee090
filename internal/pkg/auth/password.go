// internal/pkg/auth/password.go
package auth

import (
	"fmt"

	"github.com/your-org/shopcart-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes
const maxPasswordBytes = 72

// PasswordManager handles password operations
type PasswordManager struct {
	config *config.Config
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	return &PasswordManager{
		config: cfg,
	}
}

// HashPassword hashes a password using bcrypt
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if err := p.ValidatePassword(password); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.config.Security.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against its hash
func (p *PasswordManager) VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidatePassword checks the length policy
func (p *PasswordManager) ValidatePassword(password string) error {
	if len(password) < p.config.Security.PasswordMinLength {
		return fmt.Errorf("password must be at least %d characters long", p.config.Security.PasswordMinLength)
	}

	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must be no more than %d bytes long", maxPasswordBytes)
	}

	return nil
}
