package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"identity-web-server/internal/model"
)

func TestNewOAuthProvider(t *testing.T) {
	kakaoKey := "kakao-key"
	googleID := "google-client-id"
	app := &model.App{
		KakaoRestAPIKey: &kakaoKey,
		GoogleClientID:  &googleID,
	}

	assert.NotNil(t, NewOAuthProvider(ProviderKakao, app))
	assert.NotNil(t, NewOAuthProvider(ProviderGoogle, app))

	// креденшелы naver и apple не заданы
	assert.Nil(t, NewOAuthProvider(ProviderNaver, app))
	assert.Nil(t, NewOAuthProvider(ProviderApple, app))

	assert.Nil(t, NewOAuthProvider("github", app))
}
