package services

import (
	"context"
	"testing"

	"ckd-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(setupTestDB(t), NewJWTService("test-secret"))
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestUserService(t)
	ctx := context.Background()

	req := &models.RegisterRequest{
		Name:     "Ivan",
		LastName: "Sidorov",
		Email:    "ivan@example.com",
		Password: "strongpassword",
	}

	user, err := s.Register(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "strongpassword", user.PasswordHash)

	loggedIn, err := s.Login(ctx, &models.LoginRequest{
		Email:    "ivan@example.com",
		Password: "strongpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestUserService(t)
	ctx := context.Background()

	req := &models.RegisterRequest{
		Name:     "Ivan",
		LastName: "Sidorov",
		Email:    "ivan@example.com",
		Password: "strongpassword",
	}
	_, err := s.Register(ctx, req)
	require.NoError(t, err)

	_, err = s.Register(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRegisterShortPassword(t *testing.T) {
	s := newTestUserService(t)

	_, err := s.Register(context.Background(), &models.RegisterRequest{
		Name:     "Ivan",
		LastName: "Sidorov",
		Email:    "ivan@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestUserService(t)
	ctx := context.Background()

	_, err := s.Login(ctx, &models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever123",
	})
	assert.EqualError(t, err, "invalid credentials")

	_, err = s.Register(ctx, &models.RegisterRequest{
		Name:     "Ivan",
		LastName: "Sidorov",
		Email:    "ivan@example.com",
		Password: "strongpassword",
	})
	require.NoError(t, err)

	_, err = s.Login(ctx, &models.LoginRequest{
		Email:    "ivan@example.com",
		Password: "wrongpassword",
	})
	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginWithTokensAndRefresh(t *testing.T) {
	s := newTestUserService(t)
	ctx := context.Background()

	_, err := s.RegisterWithTokens(ctx, &models.RegisterRequest{
		Name:     "Ivan",
		LastName: "Sidorov",
		Email:    "ivan@example.com",
		Password: "strongpassword",
	})
	require.NoError(t, err)

	auth, err := s.LoginWithTokens(ctx, &models.LoginRequest{
		Email:    "ivan@example.com",
		Password: "strongpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", auth.TokenType)
	assert.Equal(t, int64(15*60), auth.ExpiresIn)
	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)

	refreshed, err := s.RefreshToken(ctx, auth.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = s.RefreshToken(ctx, "not-a-token")
	assert.EqualError(t, err, "invalid refresh token")
}

func TestJWTRoundTrip(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	user := &models.User{
		ID:       uuid.New(),
		Name:     "Ivan",
		LastName: "Sidorov",
		Email:    "ivan@example.com",
	}

	token, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "ckd-service-auth", claims.Issuer)
}

func TestJWTWrongSecret(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ivan@example.com"}

	token, err := NewJWTService("secret-one").GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = NewJWTService("secret-two").ValidateToken(token)
	assert.Error(t, err)
}
