package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"jerseylab-api/internal/config"
	"jerseylab-api/internal/model"
	"jerseylab-api/internal/notify"
	"jerseylab-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenTTL bounds how long a password reset token stays redeemable.
const resetTokenTTL = time.Hour

// adminService implements AdminService.
type adminService struct {
	adminRepo repository.AdminRepository
	notifier  notify.Notifier
	auth      config.AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAdminService creates a new admin account service.
func NewAdminService(
	adminRepo repository.AdminRepository,
	notifier notify.Notifier,
	auth config.AuthConfig,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		adminRepo: adminRepo,
		notifier:  notifier,
		auth:      auth,
		logger:    logger.With().Str("service", "admin").Logger(),
		now:       time.Now,
	}
}

// Login verifies credentials and issues a bearer token. Unknown emails and
// wrong passwords produce the same error.
func (s *adminService) Login(ctx context.Context, req *model.AdminLoginRequest) (*model.AdminLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Email and password are required")
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", email).Msg("failed login attempt")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.issueToken(admin)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign token")
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("admin logged in")
	return &model.AdminLoginResponse{Token: token, Admin: admin}, nil
}

// ForgotPassword issues a reset token and emails it to the account. The
// caller learns nothing about whether the email is registered.
func (s *adminService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Email is required")
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if admin == nil {
		s.logger.Debug().Str("email", email).Msg("password reset requested for unknown email")
		return nil
	}

	token := newResetToken()
	if err := s.adminRepo.SetResetToken(ctx, admin.ID, token, s.now().Add(resetTokenTTL)); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\nReset token: %s\n\nThe token expires in 1 hour. If you did not request this, ignore this email.\n",
		token,
	)
	if err := s.notifier.Send(ctx, admin.Email, "Password reset request", body); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to send reset email")
		return model.NewDomainError(model.ErrCodeUpstream, "Failed to send reset email")
	}

	s.logger.Info().Str("email", email).Msg("password reset token issued")
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *adminService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return model.ErrInvalidResetToken
	}
	if len(newPassword) < 6 {
		return model.ErrPasswordTooShort
	}

	admin, err := s.adminRepo.GetByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if admin == nil {
		return model.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.adminRepo.UpdatePassword(ctx, admin.ID, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Str("email", admin.Email).Msg("password reset completed")
	return nil
}

// List returns all admin accounts.
func (s *adminService) List(ctx context.Context) ([]model.Admin, error) {
	return s.adminRepo.List(ctx)
}

// Create adds a new admin account.
func (s *adminService) Create(ctx context.Context, req *model.CreateAdminRequest) (*model.Admin, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Name == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Email and name are required")
	}
	if len(req.Password) < 6 {
		return nil, model.ErrPasswordTooShort
	}
	role := req.Role
	if role == "" {
		role = model.RoleStaff
	}
	if !model.ValidAdminRole(role) {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Invalid admin role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	admin := &model.Admin{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Str("role", string(role)).Msg("admin created")
	return admin, nil
}

// Delete removes an admin account.
func (s *adminService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.adminRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrAdminNotFound
	}

	s.logger.Info().Str("admin_id", id.String()).Msg("admin deleted")
	return nil
}

func (s *adminService) issueToken(admin *model.Admin) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   admin.ID.String(),
		"email": admin.Email,
		"role":  string(admin.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.auth.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.auth.JWTSecret))
}

func newResetToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
