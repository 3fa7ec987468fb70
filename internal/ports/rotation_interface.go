package ports

import (
	"context"

	"identity-web-server/internal/model"
)

// RotationEngineInterface : машина состояний refresh-токенов.
// Issue создаёт новое семейство, Rotate продолжает его, Revoke завершает
type RotationEngineInterface interface {
	Issue(ctx context.Context, user *model.User, app *model.App) (*model.TokensPair, error)
	Rotate(ctx context.Context, presentedToken string) (*model.TokensPair, error)
	Revoke(ctx context.Context, presentedToken string, revokeAll bool) error
}
