package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"identity-web-server/internal/model"
)

const appleIssuer = "https://appleid.apple.com"

// AppleProvider : Sign in with Apple. Вместо access-токена клиент
// присылает identity token (JWT от Apple). Проверяются издатель,
// audience и срок действия.
// TODO: сверять подпись по JWKS https://appleid.apple.com/auth/keys
type AppleProvider struct {
	clientID string
}

func (p *AppleProvider) Name() string {
	return ProviderApple
}

type appleClaims struct {
	Email *string `json:"email"`
	jwt.RegisteredClaims
}

func (p *AppleProvider) parseIdentityToken(identityToken string) (*appleClaims, error) {
	claims := &appleClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(identityToken, claims); err != nil {
		return nil, fmt.Errorf("ошибка разбора identity token: %w", err)
	}

	issuer, err := claims.GetIssuer()
	if err != nil || issuer != appleIssuer {
		return nil, fmt.Errorf("identity token выпущен не Apple")
	}

	audience, err := claims.GetAudience()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения audience: %w", err)
	}
	audienceMatches := false
	for _, aud := range audience {
		if aud == p.clientID {
			audienceMatches = true
			break
		}
	}
	if !audienceMatches {
		return nil, fmt.Errorf("identity token выпущен для другого приложения")
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("срок действия identity token истёк")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("identity token без идентификатора пользователя")
	}
	return claims, nil
}

func (p *AppleProvider) VerifyToken(ctx context.Context, identityToken string) error {
	_, err := p.parseIdentityToken(identityToken)
	return err
}

// GetUserInfo извлекает профиль из claims самого identity token:
// у Apple нет userinfo endpoint, имя приходит только при первом входе
// отдельным полем формы и здесь недоступно
func (p *AppleProvider) GetUserInfo(ctx context.Context, identityToken string) (*model.OAuthUserInfo, error) {
	claims, err := p.parseIdentityToken(identityToken)
	if err != nil {
		return nil, err
	}

	return &model.OAuthUserInfo{
		ProviderID: claims.Subject,
		Email:      claims.Email,
	}, nil
}
