package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"examcraft/internal/domain"
	"examcraft/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService implements service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) GetGoogleLoginURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockAuthService) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (string, string, *domain.User, error) {
	args := m.Called(ctx, code, receivedState, expectedState)
	var user *domain.User
	if args.Get(2) != nil {
		user = args.Get(2).(*domain.User)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthClaims), args.Error(1)
}

func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	args := m.Called(ctx, user, ttl, tokenType)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	args := m.Called(ctx, refreshTokenString)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) EncryptToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) DecryptToken(encryptedToken string) (string, error) {
	args := m.Called(encryptedToken)
	return args.String(0), args.Error(1)
}

func setupProtectedApp(authService *MockAuthService) *fiber.App {
	app := fiber.New()
	app.Get("/protected", Protected(authService), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userID": c.Locals(UserIDKey),
			"role":   c.Locals(UserRoleKey),
		})
	})
	app.Get("/admin", Protected(authService), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestProtected_MissingHeader(t *testing.T) {
	app := setupProtectedApp(new(MockAuthService))

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_WrongScheme(t *testing.T) {
	app := setupProtectedApp(new(MockAuthService))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(AuthorizationHeader, "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_InvalidToken(t *testing.T) {
	authService := new(MockAuthService)
	authService.On("ValidateJWT", mock.Anything, "bad-token").
		Return(nil, assert.AnError).Once()
	app := setupProtectedApp(authService)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+"bad-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	authService.AssertExpectations(t)
}

func TestProtected_RejectsRefreshToken(t *testing.T) {
	authService := new(MockAuthService)
	authService.On("ValidateJWT", mock.Anything, "refresh-token").
		Return(&dto.AuthClaims{UserID: "user1", TokenType: "refresh"}, nil).Once()
	app := setupProtectedApp(authService)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+"refresh-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	authService.AssertExpectations(t)
}

func TestProtected_ValidTokenSetsLocals(t *testing.T) {
	authService := new(MockAuthService)
	authService.On("ValidateJWT", mock.Anything, "good-token").
		Return(&dto.AuthClaims{UserID: "user1", Role: domain.RoleUser, TokenType: "access"}, nil).Once()
	app := setupProtectedApp(authService)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+"good-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	authService.AssertExpectations(t)
}

func TestAdminOnly_RejectsRegularUser(t *testing.T) {
	authService := new(MockAuthService)
	authService.On("ValidateJWT", mock.Anything, "user-token").
		Return(&dto.AuthClaims{UserID: "user1", Role: domain.RoleUser, TokenType: "access"}, nil).Once()
	app := setupProtectedApp(authService)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+"user-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminOnly_AllowsAdmin(t *testing.T) {
	authService := new(MockAuthService)
	authService.On("ValidateJWT", mock.Anything, "admin-token").
		Return(&dto.AuthClaims{UserID: "admin1", Role: domain.RoleAdmin, TokenType: "access"}, nil).Once()
	app := setupProtectedApp(authService)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set(AuthorizationHeader, BearerSchema+"admin-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
