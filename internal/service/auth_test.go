package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/model"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/testhelpers"
	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/types"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.SetupTestDB(t)
	auth := NewAuthService(db, "test-secret")

	user, token, err := auth.Register(ctx, " Ada ", "Ada@Example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := auth.Register(ctx, "Other", "ada@example.com", "another-pass")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("login", func(t *testing.T) {
		got, token, err := auth.Login(ctx, "ADA@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("login with unknown email", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateToken(t *testing.T) {
	auth := NewAuthService(nil, "test-secret")
	user := &model.User{ID: uuid.New(), Email: "ada@example.com"}

	t.Run("expired", func(t *testing.T) {
		issued := NewAuthService(nil, "test-secret")
		issued.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		token, err := issued.GenerateToken(user)
		require.NoError(t, err)

		_, err = auth.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewAuthService(nil, "other-secret").GenerateToken(user)
		require.NoError(t, err)

		_, err = auth.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := &types.TokenClaims{UserID: user.ID}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = auth.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
