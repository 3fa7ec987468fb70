package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"identity-web-server/config"
	"identity-web-server/internal/model"
	"identity-web-server/internal/ports"
	"identity-web-server/internal/util"
)

type PushRepository struct {
	*config.Database
}

func NewPushRepository(database *config.Database) *PushRepository {
	return &PushRepository{database}
}

const deviceColumns = `id, user_id, app_id, token, platform, device_id, is_active, last_used_at, created_at, updated_at`

// UpsertDevice регистрирует FCM-токен устройства или реактивирует существующий
func (r *PushRepository) UpsertDevice(ctx context.Context, params *ports.UpsertDeviceParams) (*model.PushDevice, error) {
	query := `
	INSERT INTO push_device_tokens (user_id, app_id, token, platform, device_id, is_active, last_used_at)
	VALUES ($1, $2, $3, $4, $5, TRUE, NOW())
	ON CONFLICT (user_id, app_id, token) DO UPDATE
		SET platform = EXCLUDED.platform,
			device_id = EXCLUDED.device_id,
			is_active = TRUE,
			last_used_at = NOW(),
			updated_at = NOW()
	RETURNING ` + deviceColumns

	device := &model.PushDevice{}
	err := r.DB.QueryRowxContext(ctx, query,
		params.UserID,
		params.AppID,
		params.Token,
		params.Platform,
		params.DeviceID,
	).StructScan(device)

	if err != nil {
		return nil, util.LogError("[PushRepo] ошибка upsert устройства", err)
	}

	return device, nil
}

// FindDevicesByUser : список устройств пользователя, свежие первыми
func (r *PushRepository) FindDevicesByUser(ctx context.Context, userID, appID int64) ([]*model.PushDevice, error) {
	query := `SELECT ` + deviceColumns + ` FROM push_device_tokens
				WHERE user_id = $1 AND app_id = $2
				ORDER BY last_used_at DESC`

	var devices []*model.PushDevice
	if err := r.DB.SelectContext(ctx, &devices, query, userID, appID); err != nil {
		return nil, util.LogError("[PushRepo] не удалось получить устройства пользователя", err)
	}

	return devices, nil
}

// FindActiveDevicesByUsers : активные устройства перечисленных пользователей
func (r *PushRepository) FindActiveDevicesByUsers(ctx context.Context, userIDs []int64, appID int64) ([]*model.PushDevice, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+deviceColumns+` FROM push_device_tokens
				WHERE user_id IN (?) AND app_id = ? AND is_active = TRUE`, userIDs, appID)
	if err != nil {
		return nil, util.LogError("[PushRepo] ошибка сборки запроса", err)
	}

	var devices []*model.PushDevice
	if err := r.DB.SelectContext(ctx, &devices, r.DB.Rebind(query), args...); err != nil {
		return nil, util.LogError("[PushRepo] не удалось получить активные устройства", err)
	}

	return devices, nil
}

// FindActiveUserIDs : пользователи приложения, имеющие хотя бы одно активное устройство
func (r *PushRepository) FindActiveUserIDs(ctx context.Context, appID int64) ([]int64, error) {
	query := `SELECT DISTINCT user_id FROM push_device_tokens WHERE app_id = $1 AND is_active = TRUE`

	var userIDs []int64
	if err := r.DB.SelectContext(ctx, &userIDs, query, appID); err != nil {
		return nil, util.LogError("[PushRepo] не удалось получить список пользователей", err)
	}

	return userIDs, nil
}

// DeactivateDevice деактивирует устройство. Возвращает false, если устройство не найдено
func (r *PushRepository) DeactivateDevice(ctx context.Context, id, userID, appID int64) (bool, error) {
	query := `UPDATE push_device_tokens SET is_active = FALSE, updated_at = NOW()
				WHERE id = $1 AND user_id = $2 AND app_id = $3`

	result, err := r.DB.ExecContext(ctx, query, id, userID, appID)
	if err != nil {
		return false, util.LogError("[PushRepo] не удалось деактивировать устройство", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, util.LogError("[PushRepo] не удалось проверить деактивацию", err)
	}

	return rowsAffected > 0, nil
}

// DeactivateDeviceByToken деактивирует устройство по его FCM-токену
// (вызывается, когда FCM сообщает о невалидном токене)
func (r *PushRepository) DeactivateDeviceByToken(ctx context.Context, token string, appID int64) error {
	query := `UPDATE push_device_tokens SET is_active = FALSE, updated_at = NOW()
				WHERE token = $1 AND app_id = $2`

	if _, err := r.DB.ExecContext(ctx, query, token, appID); err != nil {
		return util.LogError("[PushRepo] не удалось деактивировать устройство по токену", err)
	}

	return nil
}

const alertColumns = `id, app_id, user_id, title, body, data, image_url, target_type, target_user_ids,
	sent_count, failed_count, status, error_message, sent_at, created_at`

// CreateAlert создаёт запись истории рассылки в статусе pending
func (r *PushRepository) CreateAlert(ctx context.Context, alert *model.PushAlert) (*model.PushAlert, error) {
	query := `
	INSERT INTO push_alerts (app_id, user_id, title, body, data, image_url, target_type, target_user_ids, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
	RETURNING ` + alertColumns

	created := &model.PushAlert{}
	err := r.DB.QueryRowxContext(ctx, query,
		alert.AppID,
		alert.UserID,
		alert.Title,
		alert.Body,
		alert.Data,
		alert.ImageURL,
		alert.TargetType,
		alert.TargetUserIDs,
	).StructScan(created)

	if err != nil {
		return nil, util.LogError("[PushRepo] ошибка создания записи рассылки", err)
	}

	return created, nil
}

// UpdateAlertStatus фиксирует итог рассылки
func (r *PushRepository) UpdateAlertStatus(ctx context.Context, id int64, status string, sentCount, failedCount int, errorMessage *string) error {
	query := `UPDATE push_alerts
				SET status = $2, sent_count = $3, failed_count = $4, error_message = $5, sent_at = NOW()
				WHERE id = $1`

	if _, err := r.DB.ExecContext(ctx, query, id, status, sentCount, failedCount, errorMessage); err != nil {
		return util.LogError("[PushRepo] не удалось обновить статус рассылки", err)
	}

	return nil
}

// FindAlerts : история рассылок приложения с offset-пагинацией
func (r *PushRepository) FindAlerts(ctx context.Context, appID int64, limit, offset int) ([]*model.PushAlert, int, error) {
	query := `SELECT ` + alertColumns + ` FROM push_alerts
				WHERE app_id = $1
				ORDER BY created_at DESC
				LIMIT $2 OFFSET $3`

	var alerts []*model.PushAlert
	if err := r.DB.SelectContext(ctx, &alerts, query, appID, limit, offset); err != nil {
		return nil, 0, util.LogError("[PushRepo] не удалось получить историю рассылок", err)
	}

	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM push_alerts WHERE app_id = $1`, appID); err != nil {
		return nil, 0, util.LogError("[PushRepo] не удалось посчитать рассылки", err)
	}

	return alerts, total, nil
}

// FindAlertByID : возвращает (nil, nil), если запись не найдена
func (r *PushRepository) FindAlertByID(ctx context.Context, id, appID int64) (*model.PushAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM push_alerts WHERE id = $1 AND app_id = $2`

	var alert model.PushAlert
	err := r.DB.GetContext(ctx, &alert, query, id, appID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, util.LogError("[PushRepo] не удалось найти рассылку", err)
	}

	return &alert, nil
}
