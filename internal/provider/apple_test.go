package provider

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signAppleToken(t *testing.T, issuer, audience, subject string, expiresAt time.Time) string {
	t.Helper()
	email := "user@privaterelay.appleid.com"
	claims := appleClaims{
		Email: &email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("подпись здесь не проверяется"))
	require.NoError(t, err)
	return signed
}

func TestAppleProvider_ValidToken(t *testing.T) {
	appleProvider := &AppleProvider{clientID: "com.example.app"}
	token := signAppleToken(t, appleIssuer, "com.example.app", "apple-user-1", time.Now().Add(time.Hour))

	require.NoError(t, appleProvider.VerifyToken(context.Background(), token))

	info, err := appleProvider.GetUserInfo(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "apple-user-1", info.ProviderID)
	require.NotNil(t, info.Email)
	assert.Equal(t, "user@privaterelay.appleid.com", *info.Email)
}

func TestAppleProvider_WrongIssuer(t *testing.T) {
	appleProvider := &AppleProvider{clientID: "com.example.app"}
	token := signAppleToken(t, "https://evil.example.com", "com.example.app", "apple-user-1", time.Now().Add(time.Hour))

	assert.Error(t, appleProvider.VerifyToken(context.Background(), token))
}

func TestAppleProvider_WrongAudience(t *testing.T) {
	appleProvider := &AppleProvider{clientID: "com.example.app"}
	token := signAppleToken(t, appleIssuer, "com.other.app", "apple-user-1", time.Now().Add(time.Hour))

	assert.Error(t, appleProvider.VerifyToken(context.Background(), token))
}

func TestAppleProvider_ExpiredToken(t *testing.T) {
	appleProvider := &AppleProvider{clientID: "com.example.app"}
	token := signAppleToken(t, appleIssuer, "com.example.app", "apple-user-1", time.Now().Add(-time.Hour))

	assert.Error(t, appleProvider.VerifyToken(context.Background(), token))
}
