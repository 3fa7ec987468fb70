package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"identity-web-server/internal/model"
)

const (
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleProvider : Google Sign-In по access-токену.
// tokeninfo дополнительно сверяет audience с clientId приложения
type GoogleProvider struct {
	clientID string
}

func (p *GoogleProvider) Name() string {
	return ProviderGoogle
}

type googleTokenInfo struct {
	Aud       string `json:"aud"`
	ExpiresIn string `json:"expires_in"`
}

func (p *GoogleProvider) VerifyToken(ctx context.Context, accessToken string) error {
	body, err := doGet(ctx, googleTokenInfoURL+"?access_token="+accessToken, accessToken, nil)
	if err != nil {
		return err
	}

	var info googleTokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("ошибка разбора tokeninfo: %w", err)
	}
	if info.Aud != p.clientID {
		return fmt.Errorf("токен выпущен для другого приложения")
	}
	return nil
}

type googleUserResponse struct {
	Sub     string  `json:"sub"`
	Email   *string `json:"email"`
	Name    *string `json:"name"`
	Picture *string `json:"picture"`
}

func (p *GoogleProvider) GetUserInfo(ctx context.Context, accessToken string) (*model.OAuthUserInfo, error) {
	body, err := doGet(ctx, googleUserInfoURL, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var parsed googleUserResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("ошибка разбора профиля google: %w", err)
	}
	if parsed.Sub == "" {
		return nil, fmt.Errorf("профиль google без идентификатора")
	}

	return &model.OAuthUserInfo{
		ProviderID:   parsed.Sub,
		Email:        parsed.Email,
		Nickname:     parsed.Name,
		ProfileImage: parsed.Picture,
	}, nil
}
