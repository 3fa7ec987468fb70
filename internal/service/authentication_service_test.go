package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"identity-web-server/internal/model"
	"identity-web-server/internal/ports"
	"identity-web-server/internal/service"
)

type MockRotationEngine struct{ mock.Mock }

func (m *MockRotationEngine) Issue(ctx context.Context, user *model.User, app *model.App) (*model.TokensPair, error) {
	args := m.Called(ctx, user, app)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokensPair), args.Error(1)
}

func (m *MockRotationEngine) Rotate(ctx context.Context, presentedToken string) (*model.TokensPair, error) {
	args := m.Called(ctx, presentedToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokensPair), args.Error(1)
}

func (m *MockRotationEngine) Revoke(ctx context.Context, presentedToken string, revokeAll bool) error {
	return m.Called(ctx, presentedToken, revokeAll).Error(0)
}

type MockOAuthProvider struct{ mock.Mock }

func (m *MockOAuthProvider) VerifyToken(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *MockOAuthProvider) GetUserInfo(ctx context.Context, accessToken string) (*model.OAuthUserInfo, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthUserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	return "kakao"
}

func staticFactory(provider ports.OAuthProviderInterface) service.ProviderFactory {
	return func(providerName string, app *model.App) ports.OAuthProviderInterface {
		return provider
	}
}

func TestOAuthLogin_Success(t *testing.T) {
	resolver := &MockAppResolver{}
	userRepo := &MockUserRepository{}
	engine := &MockRotationEngine{}
	oauthProvider := &MockOAuthProvider{}
	authService := service.NewAuthenticationService(resolver, userRepo, engine, staticFactory(oauthProvider))

	app := testApp()
	user := testUser()
	email := "user@example.com"
	userInfo := &model.OAuthUserInfo{
		ProviderID: "kakao-123",
		Email:      &email,
	}
	tokens := &model.TokensPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 1800}

	resolver.On("ResolveByCode", mock.Anything, "wowa").Return(app, nil)
	oauthProvider.On("VerifyToken", mock.Anything, "provider-token").Return(nil)
	oauthProvider.On("GetUserInfo", mock.Anything, "provider-token").Return(userInfo, nil)
	userRepo.On("UpsertUser", mock.Anything, mock.MatchedBy(func(params *ports.UpsertUserParams) bool {
		return params.AppID == 1 && params.Provider == "kakao" && params.ProviderID == "kakao-123"
	})).Return(user, nil)
	engine.On("Issue", mock.Anything, user, app).Return(tokens, nil)

	result, err := authService.OAuthLogin(context.Background(), "wowa", "kakao", "provider-token")

	require.NoError(t, err)
	assert.Equal(t, tokens, result.Tokens)
	assert.Equal(t, user, result.User)
	assert.Equal(t, app, result.App)
}

func TestOAuthLogin_AppNotFound(t *testing.T) {
	resolver := &MockAppResolver{}
	authService := service.NewAuthenticationService(resolver, &MockUserRepository{}, &MockRotationEngine{}, staticFactory(&MockOAuthProvider{}))

	resolver.On("ResolveByCode", mock.Anything, "unknown").Return(nil, nil)

	_, err := authService.OAuthLogin(context.Background(), "unknown", "kakao", "provider-token")

	assert.ErrorIs(t, err, service.ErrAppNotFound)
}

func TestOAuthLogin_ProviderNotConfigured(t *testing.T) {
	resolver := &MockAppResolver{}
	factory := func(providerName string, app *model.App) ports.OAuthProviderInterface {
		return nil
	}
	authService := service.NewAuthenticationService(resolver, &MockUserRepository{}, &MockRotationEngine{}, factory)

	resolver.On("ResolveByCode", mock.Anything, "wowa").Return(testApp(), nil)

	_, err := authService.OAuthLogin(context.Background(), "wowa", "naver", "provider-token")

	assert.ErrorIs(t, err, service.ErrProviderNotConfigured)
}

func TestOAuthLogin_ProviderRejectsToken(t *testing.T) {
	resolver := &MockAppResolver{}
	userRepo := &MockUserRepository{}
	oauthProvider := &MockOAuthProvider{}
	authService := service.NewAuthenticationService(resolver, userRepo, &MockRotationEngine{}, staticFactory(oauthProvider))

	resolver.On("ResolveByCode", mock.Anything, "wowa").Return(testApp(), nil)
	oauthProvider.On("VerifyToken", mock.Anything, "bad-token").Return(errors.New("401"))

	_, err := authService.OAuthLogin(context.Background(), "wowa", "kakao", "bad-token")

	assert.ErrorIs(t, err, service.ErrInvalidProviderToken)
	userRepo.AssertNotCalled(t, "UpsertUser", mock.Anything, mock.Anything)
}

func TestRefresh_Delegates(t *testing.T) {
	engine := &MockRotationEngine{}
	authService := service.NewAuthenticationService(&MockAppResolver{}, &MockUserRepository{}, engine, staticFactory(nil))

	tokens := &model.TokensPair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 1800}
	engine.On("Rotate", mock.Anything, "refresh-token").Return(tokens, nil)

	got, err := authService.Refresh(context.Background(), "refresh-token")

	require.NoError(t, err)
	assert.Equal(t, tokens, got)
}

func TestLogout_Delegates(t *testing.T) {
	engine := &MockRotationEngine{}
	authService := service.NewAuthenticationService(&MockAppResolver{}, &MockUserRepository{}, engine, staticFactory(nil))

	engine.On("Revoke", mock.Anything, "refresh-token", true).Return(nil)

	err := authService.Logout(context.Background(), "refresh-token", true)

	require.NoError(t, err)
	engine.AssertCalled(t, "Revoke", mock.Anything, "refresh-token", true)
}
