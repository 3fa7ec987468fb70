package ports

import (
	"context"

	"identity-web-server/internal/model"
)

type OAuthLoginResult struct {
	Tokens *model.TokensPair
	User   *model.User
	App    *model.App
}

type AuthenticationServiceInterface interface {
	OAuthLogin(ctx context.Context, appCode, provider, accessToken string) (*OAuthLoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, refreshToken string, revokeAll bool) error
}
