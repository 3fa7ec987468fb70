package repository

import (
	"context"
	"database/sql"
	"errors"

	"identity-web-server/config"
	"identity-web-server/internal/model"
	"identity-web-server/internal/util"
)

const appColumns = `id, code, name,
	kakao_rest_api_key, kakao_client_secret,
	naver_client_id, naver_client_secret,
	google_client_id, google_client_secret,
	apple_client_id, apple_team_id, apple_key_id, apple_private_key,
	fcm_server_key,
	jwt_secret, access_token_ttl, refresh_token_ttl, is_active, created_at, updated_at`

type AppRepository struct {
	*config.Database
}

func NewAppRepository(database *config.Database) *AppRepository {
	return &AppRepository{database}
}

// FindAppByCode ищет приложение по коду. Возвращает (nil, nil), если не найдено
func (r *AppRepository) FindAppByCode(ctx context.Context, code string) (*model.App, error) {
	query := `SELECT ` + appColumns + ` FROM apps WHERE code = $1`

	var app model.App
	err := r.DB.GetContext(ctx, &app, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, util.LogError("[AppRepo] не удалось найти приложение по коду", err)
	}

	return &app, nil
}

// FindAppByID ищет приложение по идентификатору. Возвращает (nil, nil), если не найдено
func (r *AppRepository) FindAppByID(ctx context.Context, id int64) (*model.App, error) {
	query := `SELECT ` + appColumns + ` FROM apps WHERE id = $1`

	var app model.App
	err := r.DB.GetContext(ctx, &app, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, util.LogError("[AppRepo] не удалось найти приложение по id", err)
	}

	return &app, nil
}
