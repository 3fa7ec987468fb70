package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"identity-web-server/internal/model"
)

const (
	kakaoTokenInfoURL = "https://kapi.kakao.com/v1/user/access_token_info"
	kakaoUserInfoURL  = "https://kapi.kakao.com/v2/user/me"
)

// KakaoProvider : Kakao Login. Токен приложения не нужен, kapi проверяет
// access-токен пользователя сам
type KakaoProvider struct{}

func (p *KakaoProvider) Name() string {
	return ProviderKakao
}

func (p *KakaoProvider) VerifyToken(ctx context.Context, accessToken string) error {
	_, err := doGet(ctx, kakaoTokenInfoURL, accessToken, nil)
	return err
}

type kakaoUserResponse struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   *string `json:"email"`
		Profile struct {
			Nickname        *string `json:"nickname"`
			ProfileImageURL *string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func (p *KakaoProvider) GetUserInfo(ctx context.Context, accessToken string) (*model.OAuthUserInfo, error) {
	body, err := doGet(ctx, kakaoUserInfoURL, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var parsed kakaoUserResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("ошибка разбора профиля kakao: %w", err)
	}
	if parsed.ID == 0 {
		return nil, fmt.Errorf("профиль kakao без идентификатора")
	}

	return &model.OAuthUserInfo{
		ProviderID:   strconv.FormatInt(parsed.ID, 10),
		Email:        parsed.KakaoAccount.Email,
		Nickname:     parsed.KakaoAccount.Profile.Nickname,
		ProfileImage: parsed.KakaoAccount.Profile.ProfileImageURL,
	}, nil
}
