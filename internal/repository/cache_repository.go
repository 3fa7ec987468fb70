package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"identity-web-server/config"
	"identity-web-server/internal/model"
	"identity-web-server/internal/util"
)

// CacheRepository : короткоживущий кэш приложений в Redis.
// Кэш не является источником истины: промах или ошибка чтения приводят
// к походу в БД, а не к отказу запроса
type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetApp(ctx context.Context, app *model.App) error {
	data, err := json.Marshal(app)
	if err != nil {
		return util.LogError("ошибка сериализации приложения", err)
	}

	pipe := r.client.Client.Pipeline()
	pipe.Set(ctx, r.idKey(app.ID), data, r.ttl)
	pipe.Set(ctx, r.codeKey(app.Code), data, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return util.LogError("ошибка сохранения приложения в Redis", err)
	}

	return nil
}

func (r *CacheRepository) GetAppByID(ctx context.Context, id int64) (*model.App, error) {
	return r.get(ctx, r.idKey(id))
}

func (r *CacheRepository) GetAppByCode(ctx context.Context, code string) (*model.App, error) {
	return r.get(ctx, r.codeKey(code))
}

func (r *CacheRepository) get(ctx context.Context, key string) (*model.App, error) {
	val, err := r.client.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения приложения из Redis", err)
	}

	var app model.App
	if err := json.Unmarshal([]byte(val), &app); err != nil {
		return nil, util.LogError("ошибка десериализации приложения из кэша", err)
	}
	return &app, nil
}

func (r *CacheRepository) idKey(id int64) string {
	return fmt.Sprintf("app:id:%d", id)
}

func (r *CacheRepository) codeKey(code string) string {
	return fmt.Sprintf("app:code:%s", code)
}
