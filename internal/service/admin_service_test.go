package service

import (
	"context"
	"testing"
	"time"

	"jerseylab-api/internal/config"
	"jerseylab-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockAdminRepository is a mock implementation of repository.AdminRepository.
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) GetByResetToken(ctx context.Context, token string) (*model.Admin, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) List(ctx context.Context) ([]model.Admin, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Admin), args.Error(1)
}

func (m *MockAdminRepository) ListAdminEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	args := m.Called(ctx, id, token, expires)
	return args.Error(0)
}

func (m *MockAdminRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

var testAuth = config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}

func storedAdmin(t *testing.T, email, password string) *model.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.Admin{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test Admin",
		Role:         model.RoleAdmin,
	}
}

func TestLogin_Success(t *testing.T) {
	admin := storedAdmin(t, "admin@example.com", "hunter22")

	adminRepo := new(MockAdminRepository)
	adminRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(admin, nil)

	svc := NewAdminService(adminRepo, new(MockNotifier), testAuth, zerolog.Nop())

	resp, err := svc.Login(context.Background(), &model.AdminLoginRequest{
		Email:    " Admin@Example.com ",
		Password: "hunter22",
	})

	require.NoError(t, err)
	assert.Equal(t, admin.Email, resp.Admin.Email)

	parsed, err := jwt.Parse(resp.Token, func(*jwt.Token) (any, error) {
		return []byte(testAuth.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, admin.ID.String(), claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	admin := storedAdmin(t, "admin@example.com", "hunter22")

	adminRepo := new(MockAdminRepository)
	adminRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(admin, nil)

	svc := NewAdminService(adminRepo, new(MockNotifier), testAuth, zerolog.Nop())

	_, err := svc.Login(context.Background(), &model.AdminLoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	adminRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	svc := NewAdminService(adminRepo, new(MockNotifier), testAuth, zerolog.Nop())

	_, err := svc.Login(context.Background(), &model.AdminLoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, model.ErrInvalidCredentials, "unknown email and wrong password are indistinguishable")
}

func TestForgotPassword_KnownEmailSendsToken(t *testing.T) {
	admin := storedAdmin(t, "admin@example.com", "hunter22")

	adminRepo := new(MockAdminRepository)
	notifier := new(MockNotifier)
	adminRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(admin, nil)
	adminRepo.On("SetResetToken", mock.Anything, admin.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)
	notifier.On("Send", mock.Anything, "admin@example.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewAdminService(adminRepo, notifier, testAuth, zerolog.Nop())

	err := svc.ForgotPassword(context.Background(), "admin@example.com")

	require.NoError(t, err)
	adminRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	notifier := new(MockNotifier)
	adminRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	svc := NewAdminService(adminRepo, notifier, testAuth, zerolog.Nop())

	err := svc.ForgotPassword(context.Background(), "ghost@example.com")

	assert.NoError(t, err)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_Success(t *testing.T) {
	admin := storedAdmin(t, "admin@example.com", "old-password")

	adminRepo := new(MockAdminRepository)
	adminRepo.On("GetByResetToken", mock.Anything, "tok").Return(admin, nil)
	adminRepo.On("UpdatePassword", mock.Anything, admin.ID, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")) == nil
	})).Return(nil)

	svc := NewAdminService(adminRepo, new(MockNotifier), testAuth, zerolog.Nop())

	err := svc.ResetPassword(context.Background(), "tok", "new-password")

	require.NoError(t, err)
	adminRepo.AssertExpectations(t)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	adminRepo.On("GetByResetToken", mock.Anything, "expired").Return(nil, nil)

	svc := NewAdminService(adminRepo, new(MockNotifier), testAuth, zerolog.Nop())

	err := svc.ResetPassword(context.Background(), "expired", "new-password")

	assert.ErrorIs(t, err, model.ErrInvalidResetToken)
}

func TestResetPassword_ShortPassword(t *testing.T) {
	svc := NewAdminService(new(MockAdminRepository), new(MockNotifier), testAuth, zerolog.Nop())

	err := svc.ResetPassword(context.Background(), "tok", "tiny")

	assert.ErrorIs(t, err, model.ErrPasswordTooShort)
}

func TestCreateAdmin_DefaultsRoleAndHashesPassword(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	adminRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Admin) bool {
		return a.Email == "new@example.com" &&
			a.Role == model.RoleStaff &&
			bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)

	svc := NewAdminService(adminRepo, new(MockNotifier), testAuth, zerolog.Nop())

	admin, err := svc.Create(context.Background(), &model.CreateAdminRequest{
		Email:    "New@Example.com",
		Password: "secret1",
		Name:     "New Admin",
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", admin.Email)
	adminRepo.AssertExpectations(t)
}

func TestCreateAdmin_ShortPassword(t *testing.T) {
	svc := NewAdminService(new(MockAdminRepository), new(MockNotifier), testAuth, zerolog.Nop())

	_, err := svc.Create(context.Background(), &model.CreateAdminRequest{
		Email:    "new@example.com",
		Password: "tiny",
		Name:     "New Admin",
	})

	assert.ErrorIs(t, err, model.ErrPasswordTooShort)
}

func TestDeleteAdmin_NotFound(t *testing.T) {
	id := uuid.New()
	adminRepo := new(MockAdminRepository)
	adminRepo.On("Delete", mock.Anything, id).Return(false, nil)

	svc := NewAdminService(adminRepo, new(MockNotifier), testAuth, zerolog.Nop())

	err := svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, model.ErrAdminNotFound)
}
