// internal/domain/customer/service.go
package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/shopcart-api/internal/config"
	"github.com/your-org/shopcart-api/internal/pkg/apperror"
	"github.com/your-org/shopcart-api/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles customer accounts and sessions
type Service struct {
	db              *gorm.DB
	config          *config.Config
	logger          *logrus.Logger
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	blacklist       *TokenBlacklist
}

// NewService creates a new customer service
func NewService(db *gorm.DB, blacklist *TokenBlacklist, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		logger:          logger,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		blacklist:       blacklist,
	}
}

// SignUpRequest represents account creation data
type SignUpRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

// LoginRequest represents login data
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

// Session is the result of a successful login
type Session struct {
	Customer    *Customer `json:"customer"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
}

// SignUp creates a new customer account
func (s *Service) SignUp(ctx context.Context, req *SignUpRequest) (*Customer, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	if email == "" || username == "" || req.Password1 == "" || req.Password2 == "" {
		return nil, apperror.Validation("All fields are required")
	}

	if req.Password1 != req.Password2 {
		return nil, apperror.Validation("Passwords do not match")
	}

	if err := s.passwordManager.ValidatePassword(req.Password1); err != nil {
		return nil, apperror.Validation(capitalize(err.Error()))
	}

	db := s.db.WithContext(ctx)

	taken, err := s.exists(db, "email = ?", email)
	if err != nil {
		return nil, s.persistenceFailure("customer.sign_up", err, "Account creation failed")
	}
	if taken {
		return nil, apperror.Validation("Email already in use")
	}

	taken, err = s.exists(db, "username = ?", username)
	if err != nil {
		return nil, s.persistenceFailure("customer.sign_up", err, "Account creation failed")
	}
	if taken {
		return nil, apperror.Validation("Username already taken")
	}

	hash, err := s.passwordManager.HashPassword(req.Password1)
	if err != nil {
		return nil, s.persistenceFailure("customer.sign_up", err, "Account creation failed")
	}

	customer := Customer{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}

	if err := db.Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Validation("Email or username already in use")
		}
		return nil, s.persistenceFailure("customer.sign_up", err, "Account creation failed")
	}

	s.logger.WithField("customer_id", customer.ID).Info("Customer account created")
	return &customer, nil
}

// Login authenticates a customer and issues an access token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperror.Validation("Both email and password are required")
	}

	var customer Customer
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, s.persistenceFailure("customer.login", err, "Login failed")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, customer.PasswordHash); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	token, _, err := s.jwtManager.GenerateAccessToken(customer.ID, customer.Username)
	if err != nil {
		return nil, s.persistenceFailure("customer.login", err, "Login failed")
	}

	return &Session{
		Customer:    &customer,
		AccessToken: token,
		ExpiresIn:   int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// Authenticate resolves an access token to its claims. The customer id in the
// claims is the only identity cart operations accept.
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, s.persistenceFailure("customer.authenticate", err, "Session check failed")
	}
	if revoked {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}

	return claims, nil
}

// Logout ends the session carried by the given claims
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		return s.persistenceFailure("customer.logout", err, "Logout failed")
	}
	return nil
}

// ChangePassword replaces the password hash of targetID. Only the customer
// itself may change it.
func (s *Service) ChangePassword(ctx context.Context, actingID, targetID uint, req *ChangePasswordRequest) error {
	if actingID != targetID {
		return apperror.Forbidden("Unauthorized")
	}

	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmNewPassword == "" {
		return apperror.Validation("All fields are required")
	}

	if req.NewPassword != req.ConfirmNewPassword {
		return apperror.Validation("New passwords do not match")
	}

	if err := s.passwordManager.ValidatePassword(req.NewPassword); err != nil {
		return apperror.Validation(capitalize(err.Error()))
	}

	customer, err := s.GetCustomer(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.passwordManager.VerifyPassword(req.CurrentPassword, customer.PasswordHash); err != nil {
		return apperror.Unauthorized("Current password is incorrect")
	}

	hash, err := s.passwordManager.HashPassword(req.NewPassword)
	if err != nil {
		return s.persistenceFailure("customer.change_password", err, "Password update failed")
	}

	if err := s.db.WithContext(ctx).Model(customer).Update("password_hash", hash).Error; err != nil {
		return s.persistenceFailure("customer.change_password", err, "Password update failed")
	}

	s.logger.WithField("customer_id", customer.ID).Info("Customer password changed")
	return nil
}

// GetCustomer retrieves a customer by id
func (s *Service) GetCustomer(ctx context.Context, id uint) (*Customer, error) {
	var customer Customer
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, s.persistenceFailure("customer.get", err, "Failed to retrieve user")
	}
	return &customer, nil
}

func (s *Service) exists(db *gorm.DB, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.Model(&Customer{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// persistenceFailure logs the cause and returns a generic client error
func (s *Service) persistenceFailure(op string, err error, message string) error {
	s.logger.WithFields(logrus.Fields{
		"op":    op,
		"error": err.Error(),
	}).Error(message)
	return fmt.Errorf("%s: %w", op, apperror.Persistence(message))
}

func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
