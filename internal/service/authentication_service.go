package service

import (
	"context"
	"log"

	"identity-web-server/internal/metrics"
	"identity-web-server/internal/model"
	"identity-web-server/internal/ports"
	"identity-web-server/internal/util"
)

// ProviderFactory возвращает клиент OAuth-провайдера, сконфигурированный
// учётными данными конкретного приложения. nil означает, что провайдер
// для приложения не настроен
type ProviderFactory func(providerName string, app *model.App) ports.OAuthProviderInterface

// AuthenticationService связывает OAuth-провайдеров, учётные записи
// пользователей и машину ротации токенов в единый сценарий сессии
type AuthenticationService struct {
	appResolver     ports.AppResolverInterface
	userRepo        ports.UserRepositoryInterface
	rotationEngine  ports.RotationEngineInterface
	providerFactory ProviderFactory
}

func NewAuthenticationService(
	appResolver ports.AppResolverInterface,
	userRepo ports.UserRepositoryInterface,
	rotationEngine ports.RotationEngineInterface,
	providerFactory ProviderFactory,
) *AuthenticationService {
	return &AuthenticationService{
		appResolver:     appResolver,
		userRepo:        userRepo,
		rotationEngine:  rotationEngine,
		providerFactory: providerFactory,
	}
}

// OAuthLogin проверяет access-токен провайдера, создаёт или обновляет
// пользователя и выпускает новую пару токенов с новым семейством
func (s *AuthenticationService) OAuthLogin(ctx context.Context, appCode string, providerName string, providerAccessToken string) (*ports.OAuthLoginResult, error) {
	app, err := s.appResolver.ResolveByCode(ctx, appCode)
	if err != nil {
		metrics.LoginTotal.WithLabelValues("failure", providerName).Inc()
		return nil, util.LogError("не удалось разрешить приложение", err)
	}
	if app == nil || !app.IsActive {
		metrics.LoginTotal.WithLabelValues("failure", providerName).Inc()
		return nil, ErrAppNotFound
	}

	provider := s.providerFactory(providerName, app)
	if provider == nil {
		metrics.LoginTotal.WithLabelValues("failure", providerName).Inc()
		return nil, ErrProviderNotConfigured
	}

	if err := provider.VerifyToken(ctx, providerAccessToken); err != nil {
		metrics.LoginTotal.WithLabelValues("failure", providerName).Inc()
		log.Printf("провайдер %s отклонил токен: %v", providerName, err)
		return nil, ErrInvalidProviderToken
	}

	userInfo, err := provider.GetUserInfo(ctx, providerAccessToken)
	if err != nil {
		metrics.LoginTotal.WithLabelValues("failure", providerName).Inc()
		return nil, util.LogError("не удалось получить профиль у провайдера", err)
	}

	user, err := s.userRepo.UpsertUser(ctx, &ports.UpsertUserParams{
		AppID:        app.ID,
		Provider:     providerName,
		ProviderID:   userInfo.ProviderID,
		Email:        userInfo.Email,
		Nickname:     userInfo.Nickname,
		ProfileImage: userInfo.ProfileImage,
	})
	if err != nil {
		metrics.LoginTotal.WithLabelValues("failure", providerName).Inc()
		return nil, util.LogError("не удалось сохранить пользователя", err)
	}

	tokens, err := s.rotationEngine.Issue(ctx, user, app)
	if err != nil {
		metrics.LoginTotal.WithLabelValues("failure", providerName).Inc()
		return nil, err
	}

	metrics.LoginTotal.WithLabelValues("success", providerName).Inc()
	log.Printf("логин через %s: user %d, app %s", providerName, user.ID, app.Code)

	return &ports.OAuthLoginResult{
		Tokens: tokens,
		User:   user,
		App:    app,
	}, nil
}

// Refresh обменивает refresh-токен на новую пару
func (s *AuthenticationService) Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	return s.rotationEngine.Rotate(ctx, refreshToken)
}

// Logout отзывает предъявленный refresh-токен, при revokeAll — все
// токены пользователя на всех устройствах
func (s *AuthenticationService) Logout(ctx context.Context, refreshToken string, revokeAll bool) error {
	return s.rotationEngine.Revoke(ctx, refreshToken, revokeAll)
}
