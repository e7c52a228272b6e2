package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifier_Verify_OK(t *testing.T) {
	now := time.Now()
	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":   "user-123",
		"email": "fer@example.com",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})

	claims, err := NewVerifier(testSecret).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "fer@example.com", claims.Email)
}

func TestVerifier_Verify_Empty(t *testing.T) {
	_, err := NewVerifier(testSecret).Verify(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}

func TestVerifier_Verify_WrongSecret(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, "otro-secret", jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := NewVerifier(testSecret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifier_Verify_Expired(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := NewVerifier(testSecret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifier_Verify_MissingSubject(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"email": "fer@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	_, err := NewVerifier(testSecret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
