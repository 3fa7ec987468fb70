package ports

import (
	"time"

	"identity-web-server/internal/model"
	"identity-web-server/internal/security"
)

type JWTServiceInterface interface {
	SignAccessToken(user *model.User, app *model.App) (string, int64, error)
	SignRefreshToken(userID int64, app *model.App, jti, tokenFamily string) (string, time.Time, error)
	VerifyAccessToken(tokenStr string, secret []byte) (*security.AccessClaims, error)
	VerifyRefreshToken(tokenStr string, secret []byte) (*security.RefreshClaims, error)
	PeekAppID(tokenStr string) (int64, error)
}
