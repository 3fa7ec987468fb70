package ports

import (
	"context"

	"identity-web-server/internal/model"
)

// TokenStoreInterface : хранилище записей refresh-токенов.
// FindByJTI возвращает (nil, nil), если запись не найдена
type TokenStoreInterface interface {
	Insert(ctx context.Context, record *model.RefreshTokenRecord) error
	FindByJTI(ctx context.Context, jti string) (*model.RefreshTokenRecord, error)
	RevokeByID(ctx context.Context, id int64, reason string) error
	RevokeAllByUser(ctx context.Context, userID int64, reason string) error
	RevokeAllByFamily(ctx context.Context, tokenFamily string, reason string) error

	// Rotate атомарно отзывает старую запись и вставляет новую.
	// Отзыв выполняется как compare-and-swap: если старая запись уже
	// отозвана конкурентным запросом, вся транзакция откатывается
	Rotate(ctx context.Context, oldID int64, newRecord *model.RefreshTokenRecord) error
}
