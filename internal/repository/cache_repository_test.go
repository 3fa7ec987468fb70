package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-web-server/config"
	"identity-web-server/internal/model"
	"identity-web-server/internal/repository"
)

func newCacheRepo(t *testing.T) (*repository.CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return repository.NewCacheRepository(&config.RedisClient{Client: client}, 5*time.Minute), server
}

func cachedApp() *model.App {
	return &model.App{
		ID:              1,
		Code:            "wowa",
		Name:            "Wowa",
		JWTSecret:       "app-secret",
		AccessTokenTTL:  "30m",
		RefreshTokenTTL: "14d",
		IsActive:        true,
	}
}

func TestSetAndGetApp(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetApp(ctx, cachedApp()))

	byID, err := repo.GetAppByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "wowa", byID.Code)
	// секрет подписи обязан переживать сериализацию в кэш
	assert.Equal(t, "app-secret", byID.JWTSecret)

	byCode, err := repo.GetAppByCode(ctx, "wowa")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, int64(1), byCode.ID)
}

func TestGetApp_Miss(t *testing.T) {
	repo, _ := newCacheRepo(t)

	app, err := repo.GetAppByID(context.Background(), 99)

	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestGetApp_ExpiresByTTL(t *testing.T) {
	repo, server := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetApp(ctx, cachedApp()))
	server.FastForward(6 * time.Minute)

	app, err := repo.GetAppByID(ctx, 1)

	require.NoError(t, err)
	assert.Nil(t, app)
}
