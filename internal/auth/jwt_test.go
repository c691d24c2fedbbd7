package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, 15*time.Minute)

	token, err := m.GenerateAccessToken("user-123", "a@example.com", "customer")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("other-secret", time.Minute).GenerateAccessToken("u", "", "")
	require.NoError(t, err)

	_, err = NewJWTManager(testSecret, time.Minute).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager(testSecret, -time.Minute)
	token, err := m.GenerateAccessToken("u", "", "")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTManager_RejectsNonHMAC(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           "u",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager(testSecret, time.Minute).ValidateAccessToken(signed)
	assert.Error(t, err)
}

func TestJWTManager_SubjectFallbackAndMissingUser(t *testing.T) {
	m := NewJWTManager(testSecret, time.Minute)
	sign := func(c *Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))

	claims, err := m.ValidateAccessToken(sign(&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-1", ExpiresAt: exp}}))
	require.NoError(t, err)
	assert.Equal(t, "sub-1", claims.UserID)

	_, err = m.ValidateAccessToken(sign(&Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}))
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = m.ValidateAccessToken(sign(&Claims{UserID: "u"}))
	assert.Error(t, err, "tokens without expiry are rejected")
}

func TestJWTManager_Garbage(t *testing.T) {
	_, err := NewJWTManager(testSecret, time.Minute).ValidateAccessToken("not.a.jwt")
	assert.Error(t, err)
}
