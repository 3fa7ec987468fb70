package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"identity-web-server/internal/model"
	"identity-web-server/internal/ports"
)

const (
	ProviderKakao  = "kakao"
	ProviderNaver  = "naver"
	ProviderGoogle = "google"
	ProviderApple  = "apple"
)

// общий HTTP-клиент для запросов к провайдерам
var httpClient = &http.Client{
	Timeout: 10 * time.Second,
}

// NewOAuthProvider возвращает клиент провайдера, настроенный креденшелами
// приложения, или nil, если провайдер не настроен для этого приложения
func NewOAuthProvider(providerName string, app *model.App) ports.OAuthProviderInterface {
	switch providerName {
	case ProviderKakao:
		if app.KakaoRestAPIKey == nil {
			return nil
		}
		return &KakaoProvider{}
	case ProviderNaver:
		if app.NaverClientID == nil || app.NaverClientSecret == nil {
			return nil
		}
		return &NaverProvider{}
	case ProviderGoogle:
		if app.GoogleClientID == nil {
			return nil
		}
		return &GoogleProvider{clientID: *app.GoogleClientID}
	case ProviderApple:
		if app.AppleClientID == nil {
			return nil
		}
		return &AppleProvider{clientID: *app.AppleClientID}
	default:
		return nil
	}
}

// doGet выполняет GET с Bearer-авторизацией и возвращает тело ответа
func doGet(ctx context.Context, url, accessToken string, headers map[string]string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к %s: %w", url, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("провайдер вернул статус %d: %s", response.StatusCode, string(body))
	}
	return body, nil
}
