package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-web-server/config"
	"identity-web-server/internal/model"
	"identity-web-server/internal/security"
)

func newTestJWTService() *security.JWTService {
	return security.NewJWTService(&config.JWTConfig{
		SecretKey:           "fallback-secret",
		AccessTokenTTL:      "30m",
		RefreshTokenTTL:     "14d",
		RotationGracePeriod: "5s",
	})
}

func jwtTestApp() *model.App {
	return &model.App{
		ID:              7,
		Code:            "wowa",
		JWTSecret:       "app-secret",
		AccessTokenTTL:  "30m",
		RefreshTokenTTL: "14d",
		IsActive:        true,
	}
}

func jwtTestUser() *model.User {
	email := "user@example.com"
	nickname := "user1"
	return &model.User{
		ID:       42,
		AppID:    7,
		Email:    &email,
		Nickname: &nickname,
	}
}

func TestSignAndVerifyAccessToken(t *testing.T) {
	jwtService := newTestJWTService()
	app := jwtTestApp()

	token, expiresIn, err := jwtService.SignAccessToken(jwtTestUser(), app)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), expiresIn)

	claims, err := jwtService.VerifyAccessToken(token, []byte(app.JWTSecret))
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AppID)
	assert.Equal(t, "42", claims.Subject)
	require.NotNil(t, claims.Email)
	assert.Equal(t, "user@example.com", *claims.Email)
}

func TestSignAndVerifyRefreshToken(t *testing.T) {
	jwtService := newTestJWTService()
	app := jwtTestApp()

	token, expiresAt, err := jwtService.SignRefreshToken(42, app, "jti-1", "family-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(14*24*time.Hour), expiresAt, time.Minute)

	claims, err := jwtService.VerifyRefreshToken(token, []byte(app.JWTSecret))
	require.NoError(t, err)
	assert.Equal(t, "jti-1", claims.ID)
	assert.Equal(t, "family-1", claims.TokenFamily)
	assert.Equal(t, int64(7), claims.AppID)
	assert.Equal(t, "42", claims.Subject)
}

func TestVerifyRefreshToken_WrongSecret(t *testing.T) {
	jwtService := newTestJWTService()
	app := jwtTestApp()

	token, _, err := jwtService.SignRefreshToken(42, app, "jti-1", "family-1")
	require.NoError(t, err)

	_, err = jwtService.VerifyRefreshToken(token, []byte("другой-секрет"))
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}

func TestVerifyRefreshToken_Expired(t *testing.T) {
	jwtService := newTestJWTService()
	app := jwtTestApp()
	app.RefreshTokenTTL = "1s"

	token, _, err := jwtService.SignRefreshToken(42, app, "jti-1", "family-1")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, err = jwtService.VerifyRefreshToken(token, []byte(app.JWTSecret))
	assert.ErrorIs(t, err, security.ErrTokenExpired)
}

func TestVerifyRefreshToken_Garbage(t *testing.T) {
	jwtService := newTestJWTService()

	_, err := jwtService.VerifyRefreshToken("не токен вовсе", []byte("secret"))
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}

func TestPeekAppID(t *testing.T) {
	jwtService := newTestJWTService()
	app := jwtTestApp()

	token, _, err := jwtService.SignRefreshToken(42, app, "jti-1", "family-1")
	require.NoError(t, err)

	// подпись при peek не проверяется, секрет не нужен
	appID, err := jwtService.PeekAppID(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), appID)
}

func TestPeekAppID_Garbage(t *testing.T) {
	jwtService := newTestJWTService()

	_, err := jwtService.PeekAppID("мусор")
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}

func TestParseLifetime(t *testing.T) {
	cases := []struct {
		input    string
		expected time.Duration
	}{
		{"30s", 30 * time.Second},
		{"30m", 30 * time.Minute},
		{"12h", 12 * time.Hour},
		{"14d", 14 * 24 * time.Hour},
	}

	for _, testCase := range cases {
		got, err := security.ParseLifetime(testCase.input)
		require.NoError(t, err, testCase.input)
		assert.Equal(t, testCase.expected, got, testCase.input)
	}
}

func TestParseLifetime_Invalid(t *testing.T) {
	for _, input := range []string{"", "14", "d", "14w", "-5m", "5 m"} {
		_, err := security.ParseLifetime(input)
		assert.ErrorIs(t, err, security.ErrInvalidDuration, input)
	}
}
