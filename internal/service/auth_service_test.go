package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/restshop/internal/config"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-123"

func newAuthService(repo domain.UserRepository) *AuthService {
	tokens := NewTokenService(config.JWTConfig{Secret: testSecret, Expiry: time.Hour})
	return NewAuthService(repo, tokens, bcrypt.MinCost)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := newAuthService(repo)

	repo.On("GetByEmail", ctx, "new@example.com").Return(nil, domain.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Signup(ctx, "new@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2")))
}

func TestSignup_EmailExists(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := newAuthService(repo)

	repo.On("GetByEmail", ctx, "taken@example.com").Return(&domain.User{ID: "u1", Email: "taken@example.com"}, nil)

	_, err := svc.Signup(ctx, "taken@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrEmailExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	svc := newAuthService(repo)
	repo.On("GetByEmail", ctx, "a@example.com").Return(&domain.User{ID: "u1", Email: "a@example.com", PasswordHash: string(hash)}, nil)
	repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.ErrNotFound)

	token, err := svc.Login(ctx, "a@example.com", "hunter2")
	require.NoError(t, err)

	claims := &domain.ShopClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "u1", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	_, err = svc.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)

	_, err = svc.Login(ctx, "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}
