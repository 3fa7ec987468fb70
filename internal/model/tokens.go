package model

import "time"

// RefreshTokenRecord : хранимая запись refresh-токена.
// В БД попадает только digest токена, сам токен никогда не сохраняется.
// Записи не удаляются: ротация и logout лишь переводят revoked в TRUE
type RefreshTokenRecord struct {
	ID            int64      `db:"id"`
	JTI           string     `db:"jti"`
	TokenFamily   string     `db:"token_family"`
	TokenDigest   string     `db:"token_digest"`
	UserID        int64      `db:"user_id"`
	AppID         int64      `db:"app_id"`
	ExpiresAt     time.Time  `db:"expires_at"`
	Revoked       bool       `db:"revoked"`
	RevokedAt     *time.Time `db:"revoked_at"`
	RevokedReason *string    `db:"revoked_reason"`
	CreatedAt     time.Time  `db:"created_at"`
}

// Причины отзыва записи refresh-токена
const (
	RevokeReasonRotated   = "rotated"
	RevokeReasonLogout    = "logout"
	RevokeReasonLogoutAll = "logout_all"
	RevokeReasonReuse     = "reuse"
)

// IsExpired : истечение срока действия — производное состояние,
// вычисляется при чтении
func (r *RefreshTokenRecord) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (для получения новой пары)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`

	// Время жизни access токена в секундах
	// example: 1800
	ExpiresIn int64 `json:"expiresIn"`
}
