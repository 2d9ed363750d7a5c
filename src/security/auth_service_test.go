// src/security/auth_service_test.go
package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-that-is-long-enough!"

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := NewAuthService(testSecret, 15*time.Minute)

	token, err := svc.GenerateToken("42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestAuthService_RejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(testSecret, 15*time.Minute)
	verifier := NewAuthService("a-completely-different-secret-value!", 15*time.Minute)

	token, err := issuer.GenerateToken("42")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_RejectsExpiredToken(t *testing.T) {
	svc := NewAuthService(testSecret, -time.Minute)

	token, err := svc.GenerateToken("42")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_RejectsGarbage(t *testing.T) {
	svc := NewAuthService(testSecret, 15*time.Minute)

	_, err := svc.ValidateToken("not.a.jwt")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}

func TestAuthService_GenerateRefreshToken(t *testing.T) {
	svc := NewAuthService(testSecret, 15*time.Minute)

	first, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	// 32 random bytes base64-encoded.
	assert.Len(t, first, 44)
}

func TestAuthService_HashPassword(t *testing.T) {
	svc := NewAuthService(testSecret, 15*time.Minute)

	hash, err := svc.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter22")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}
