package ports

import (
	"context"

	"identity-web-server/internal/model"
)

// OAuthProviderInterface : общий контракт OAuth-провайдеров (kakao/naver/google/apple)
type OAuthProviderInterface interface {
	// VerifyToken проверяет валидность access-токена провайдера
	VerifyToken(ctx context.Context, accessToken string) error
	// GetUserInfo возвращает нормализованный профиль пользователя
	GetUserInfo(ctx context.Context, accessToken string) (*model.OAuthUserInfo, error)
	Name() string
}

// SecurityNotifierInterface : отправка security-алертов во внешнюю систему
type SecurityNotifierInterface interface {
	NotifyReuseDetected(userID, appID int64, tokenFamily string) error
}
