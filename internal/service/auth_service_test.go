package service

import (
	"context"
	"testing"
	"time"

	"examcraft/internal/config"
	"examcraft/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "0123456789abcdef0123456789abcdef-test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		GoogleOAuth: config.GoogleOAuthConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost/callback",
		},
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:    "user1",
		Email: "user@example.com",
		Role:  domain.RoleUser,
	}
}

func TestNewAuthService_RejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWT.SecretKey = "too-short"

	_, err := NewAuthService(new(MockUserRepository), cfg)
	require.Error(t, err)
}

func TestCreateAndValidateJWT(t *testing.T) {
	svc, err := NewAuthService(new(MockUserRepository), testAuthConfig())
	require.NoError(t, err)
	ctx := context.Background()

	token, err := svc.CreateJWT(ctx, testUser(), 15*time.Minute, "access")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateJWT(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestValidateJWT_RejectsExpiredToken(t *testing.T) {
	svc, err := NewAuthService(new(MockUserRepository), testAuthConfig())
	require.NoError(t, err)
	ctx := context.Background()

	token, err := svc.CreateJWT(ctx, testUser(), -time.Minute, "access")
	require.NoError(t, err)

	_, err = svc.ValidateJWT(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestValidateJWT_RejectsGarbage(t *testing.T) {
	svc, err := NewAuthService(new(MockUserRepository), testAuthConfig())
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestRefreshToken_IssuesNewPair(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, err := NewAuthService(userRepo, testAuthConfig())
	require.NoError(t, err)
	ctx := context.Background()

	user := testUser()
	refreshToken, err := svc.CreateJWT(ctx, user, time.Hour, "refresh")
	require.NoError(t, err)

	userRepo.On("GetUserByID", ctx, "user1").Return(user, nil).Once()

	newAccess, newRefresh, err := svc.RefreshToken(ctx, refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	claims, err := svc.ValidateJWT(ctx, newAccess)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc, err := NewAuthService(new(MockUserRepository), testAuthConfig())
	require.NoError(t, err)
	ctx := context.Background()

	accessToken, err := svc.CreateJWT(ctx, testUser(), time.Hour, "access")
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(ctx, accessToken)
	require.Error(t, err)
}

func TestEncryptDecryptToken_RoundTrip(t *testing.T) {
	svc, err := NewAuthService(new(MockUserRepository), testAuthConfig())
	require.NoError(t, err)

	encrypted, err := svc.EncryptToken("google-refresh-token")
	require.NoError(t, err)
	assert.NotEqual(t, "google-refresh-token", encrypted)

	decrypted, err := svc.DecryptToken(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "google-refresh-token", decrypted)
}

func TestEncryptToken_EmptyPassesThrough(t *testing.T) {
	svc, err := NewAuthService(new(MockUserRepository), testAuthConfig())
	require.NoError(t, err)

	encrypted, err := svc.EncryptToken("")
	require.NoError(t, err)
	assert.Empty(t, encrypted)
}

func TestDecryptToken_RejectsTamperedCiphertext(t *testing.T) {
	svc, err := NewAuthService(new(MockUserRepository), testAuthConfig())
	require.NoError(t, err)

	_, err = svc.DecryptToken("bm90LXJlYWwtY2lwaGVydGV4dA==")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestGetGoogleLoginURL_ContainsState(t *testing.T) {
	svc, err := NewAuthService(new(MockUserRepository), testAuthConfig())
	require.NoError(t, err)

	url := svc.GetGoogleLoginURL("state123")
	assert.Contains(t, url, "state=state123")
	assert.Contains(t, url, "client-id")
}

func TestLogout_ClearsStoredRefreshToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, err := NewAuthService(userRepo, testAuthConfig())
	require.NoError(t, err)
	ctx := context.Background()

	user := testUser()
	user.EncryptedRefreshToken = "encrypted"
	userRepo.On("GetUserByID", ctx, "user1").Return(user, nil).Once()
	userRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == "user1" && u.EncryptedRefreshToken == ""
	})).Return(nil).Once()

	require.NoError(t, svc.Logout(ctx, "user1"))
	userRepo.AssertExpectations(t)
}

func TestLogout_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, err := NewAuthService(userRepo, testAuthConfig())
	require.NoError(t, err)
	ctx := context.Background()

	userRepo.On("GetUserByID", ctx, "missing").Return(nil, nil).Once()

	err = svc.Logout(ctx, "missing")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)
}
