package repository

import (
	"context"
	"database/sql"
	"errors"

	"identity-web-server/config"
	"identity-web-server/internal/model"
	"identity-web-server/internal/ports"
	"identity-web-server/internal/util"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// UpsertUser создаёт пользователя при первом входе или обновляет профиль
// при повторном. Уникальность: (app_id, provider, provider_id)
func (r *UserRepository) UpsertUser(ctx context.Context, params *ports.UpsertUserParams) (*model.User, error) {
	query := `
	INSERT INTO users (app_id, provider, provider_id, email, nickname, profile_image, last_login_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (app_id, provider, provider_id) DO UPDATE
		SET email = EXCLUDED.email,
			nickname = EXCLUDED.nickname,
			profile_image = EXCLUDED.profile_image,
			last_login_at = NOW(),
			updated_at = NOW()
	RETURNING id, app_id, provider, provider_id, email, nickname, profile_image, last_login_at, created_at, updated_at
	`

	user := &model.User{}
	err := r.DB.QueryRowxContext(ctx, query,
		params.AppID,
		params.Provider,
		params.ProviderID,
		params.Email,
		params.Nickname,
		params.ProfileImage,
	).StructScan(user)

	if err != nil {
		return nil, util.LogError("[UserRepo] ошибка upsert пользователя", err)
	}

	return user, nil
}

// FindByID : ищет пользователя по идентификатору
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, app_id, provider, provider_id, email, nickname, profile_image, last_login_at, created_at, updated_at
				FROM users WHERE id = $1`

	var user model.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}

	return &user, nil
}
