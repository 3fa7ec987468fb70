package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"identity-web-server/internal/model"
)

const naverUserInfoURL = "https://openapi.naver.com/v1/nid/me"

// NaverProvider : Naver Login. Отдельного endpoint проверки токена нет,
// валидность подтверждается успешным запросом профиля
type NaverProvider struct{}

func (p *NaverProvider) Name() string {
	return ProviderNaver
}

func (p *NaverProvider) VerifyToken(ctx context.Context, accessToken string) error {
	_, err := p.fetchProfile(ctx, accessToken)
	return err
}

type naverUserResponse struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID           string  `json:"id"`
		Email        *string `json:"email"`
		Nickname     *string `json:"nickname"`
		ProfileImage *string `json:"profile_image"`
	} `json:"response"`
}

func (p *NaverProvider) fetchProfile(ctx context.Context, accessToken string) (*naverUserResponse, error) {
	body, err := doGet(ctx, naverUserInfoURL, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var parsed naverUserResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("ошибка разбора профиля naver: %w", err)
	}
	if parsed.ResultCode != "00" {
		return nil, fmt.Errorf("naver вернул код %s: %s", parsed.ResultCode, parsed.Message)
	}
	if parsed.Response.ID == "" {
		return nil, fmt.Errorf("профиль naver без идентификатора")
	}
	return &parsed, nil
}

func (p *NaverProvider) GetUserInfo(ctx context.Context, accessToken string) (*model.OAuthUserInfo, error) {
	parsed, err := p.fetchProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return &model.OAuthUserInfo{
		ProviderID:   parsed.Response.ID,
		Email:        parsed.Response.Email,
		Nickname:     parsed.Response.Nickname,
		ProfileImage: parsed.Response.ProfileImage,
	}, nil
}
