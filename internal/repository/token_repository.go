package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"identity-web-server/config"
	"identity-web-server/internal/model"
	"identity-web-server/internal/util"
)

var (
	// ErrDuplicateJTI : нарушение уникальности jti при вставке
	ErrDuplicateJTI = errors.New("запись с таким jti уже существует")
	// ErrDuplicateDigest : нарушение уникальности digest при вставке
	ErrDuplicateDigest = errors.New("запись с таким digest уже существует")
	// ErrRotationConflict : старая запись уже отозвана конкурентной ротацией,
	// compare-and-swap не прошёл
	ErrRotationConflict = errors.New("токен уже был использован для ротации")
)

const uniqueViolation = "23505"

type TokenRepository struct {
	*config.Database
}

func NewTokenRepository(database *config.Database) *TokenRepository {
	return &TokenRepository{database}
}

func mapInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if strings.Contains(pqErr.Constraint, "jti") {
			return ErrDuplicateJTI
		}
		if strings.Contains(pqErr.Constraint, "digest") {
			return ErrDuplicateDigest
		}
	}
	return err
}

// Insert сохраняет новую запись refresh-токена
func (r *TokenRepository) Insert(ctx context.Context, record *model.RefreshTokenRecord) error {
	query := `INSERT INTO refresh_tokens (jti, token_family, token_digest, user_id, app_id, expires_at, revoked, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())
				RETURNING id, created_at`

	err := r.DB.QueryRowContext(ctx, query,
		record.JTI,
		record.TokenFamily,
		record.TokenDigest,
		record.UserID,
		record.AppID,
		record.ExpiresAt,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		if mapped := mapInsertError(err); mapped != err {
			return mapped
		}
		return util.LogError("ошибка вставки refresh-токена в БД", err)
	}

	return nil
}

// FindByJTI ищет запись refresh-токена по jti.
// Возвращает (nil, nil), если записи нет
func (r *TokenRepository) FindByJTI(ctx context.Context, jti string) (*model.RefreshTokenRecord, error) {
	query := `SELECT id, jti, token_family, token_digest, user_id, app_id, expires_at, revoked, revoked_at, revoked_reason, created_at
				FROM refresh_tokens WHERE jti = $1`

	record := &model.RefreshTokenRecord{}
	err := r.DB.QueryRowContext(ctx, query, jti).Scan(
		&record.ID,
		&record.JTI,
		&record.TokenFamily,
		&record.TokenDigest,
		&record.UserID,
		&record.AppID,
		&record.ExpiresAt,
		&record.Revoked,
		&record.RevokedAt,
		&record.RevokedReason,
		&record.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, util.LogError("ошибка поиска refresh-токена", err)
	}

	return record, nil
}

// RevokeByID отзывает запись. Повторный отзыв — no-op, не ошибка
func (r *TokenRepository) RevokeByID(ctx context.Context, id int64, reason string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW(), revoked_reason = $2 WHERE id = $1 AND revoked = FALSE`

	if _, err := r.DB.ExecContext(ctx, query, id, reason); err != nil {
		return util.LogError("не удалось отозвать refresh-токен", err)
	}

	return nil
}

// RevokeAllByUser отзывает все активные токены пользователя
func (r *TokenRepository) RevokeAllByUser(ctx context.Context, userID int64, reason string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW(), revoked_reason = $2 WHERE user_id = $1 AND revoked = FALSE`

	if _, err := r.DB.ExecContext(ctx, query, userID, reason); err != nil {
		return util.LogError("не удалось отозвать токены пользователя", err)
	}

	return nil
}

// RevokeAllByFamily отзывает всё семейство токенов разом
func (r *TokenRepository) RevokeAllByFamily(ctx context.Context, tokenFamily string, reason string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW(), revoked_reason = $2 WHERE token_family = $1 AND revoked = FALSE`

	if _, err := r.DB.ExecContext(ctx, query, tokenFamily, reason); err != nil {
		return util.LogError("не удалось отозвать семейство токенов", err)
	}

	return nil
}

// Rotate атомарно отзывает старую запись и вставляет новую.
// Отзыв выполняется условно (WHERE revoked = FALSE): из двух конкурентных
// ротаций одного токена зафиксируется ровно одна, вторая получит
// ErrRotationConflict и откат
func (r *TokenRepository) Rotate(ctx context.Context, oldID int64, newRecord *model.RefreshTokenRecord) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return util.LogError("не удалось открыть транзакцию ротации", err)
	}
	defer tx.Rollback()

	revokeQuery := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW(), revoked_reason = $2 WHERE id = $1 AND revoked = FALSE`
	result, err := tx.ExecContext(ctx, revokeQuery, oldID, model.RevokeReasonRotated)
	if err != nil {
		return util.LogError("ошибка отзыва старого токена при ротации", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("не удалось проверить отзыв старого токена", err)
	}
	if rowsAffected == 0 {
		return ErrRotationConflict
	}

	insertQuery := `INSERT INTO refresh_tokens (jti, token_family, token_digest, user_id, app_id, expires_at, revoked, created_at)
					VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())
					RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, insertQuery,
		newRecord.JTI,
		newRecord.TokenFamily,
		newRecord.TokenDigest,
		newRecord.UserID,
		newRecord.AppID,
		newRecord.ExpiresAt,
	).Scan(&newRecord.ID, &newRecord.CreatedAt)

	if err != nil {
		if mapped := mapInsertError(err); mapped != err {
			return mapped
		}
		return util.LogError("ошибка вставки нового токена при ротации", err)
	}

	if err := tx.Commit(); err != nil {
		return util.LogError("не удалось зафиксировать транзакцию ротации", err)
	}

	return nil
}
