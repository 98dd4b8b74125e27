package service

import (
	"context"
	"testing"
	"time"

	"grindai/fitness-planner/internal/repository/memrepo"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	const secret = "test-secret"

	t.Run("should register and log in", func(t *testing.T) {
		svc := NewAuthService(memrepo.New().Users(), secret, time.Hour)

		user, err := svc.Register(ctx, "Sam", "Sam@Example.com", "hunter22")
		require.NoError(t, err)
		assert.Empty(t, user.PasswordHash)

		token, loggedIn, err := svc.Login(ctx, "sam@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, user.ID, loggedIn.ID)

		claims := &jwtClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte(secret), nil })
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, user.ID.Hex(), claims.UserID)
	})

	t.Run("should reject duplicate emails", func(t *testing.T) {
		svc := NewAuthService(memrepo.New().Users(), secret, time.Hour)
		_, err := svc.Register(ctx, "Sam", "sam@example.com", "pw")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "Sam", "SAM@example.com", "pw")
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("should fail authentication on a wrong password or unknown email", func(t *testing.T) {
		svc := NewAuthService(memrepo.New().Users(), secret, time.Hour)
		_, err := svc.Register(ctx, "Sam", "sam@example.com", "pw")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "sam@example.com", "nope")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
		_, _, err = svc.Login(ctx, "who@example.com", "pw")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("should require all registration fields", func(t *testing.T) {
		svc := NewAuthService(memrepo.New().Users(), secret, time.Hour)
		_, err := svc.Register(ctx, " ", "sam@example.com", "pw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("should panic without a secret", func(t *testing.T) {
		assert.Panics(t, func() { NewAuthService(memrepo.New().Users(), "", time.Hour) })
	})
}
