package model

import "time"

// App : приложение-арендатор (tenant). Хранит OAuth-креденшелы провайдеров,
// секрет подписи JWT и время жизни токенов. Наружу никогда не сериализуется
// целиком — ответы API собираются из DTO в requestresponse
type App struct {
	ID   int64  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`

	KakaoRestAPIKey    *string `db:"kakao_rest_api_key" json:"kakaoRestApiKey"`
	KakaoClientSecret  *string `db:"kakao_client_secret" json:"kakaoClientSecret"`
	NaverClientID      *string `db:"naver_client_id" json:"naverClientId"`
	NaverClientSecret  *string `db:"naver_client_secret" json:"naverClientSecret"`
	GoogleClientID     *string `db:"google_client_id" json:"googleClientId"`
	GoogleClientSecret *string `db:"google_client_secret" json:"googleClientSecret"`
	AppleClientID      *string `db:"apple_client_id" json:"appleClientId"`
	AppleTeamID        *string `db:"apple_team_id" json:"appleTeamId"`
	AppleKeyID         *string `db:"apple_key_id" json:"appleKeyId"`
	ApplePrivateKey    *string `db:"apple_private_key" json:"applePrivateKey"`

	FCMServerKey *string `db:"fcm_server_key" json:"fcmServerKey"`

	JWTSecret       string    `db:"jwt_secret" json:"jwtSecret"`
	AccessTokenTTL  string    `db:"access_token_ttl" json:"accessTokenTtl"`
	RefreshTokenTTL string    `db:"refresh_token_ttl" json:"refreshTokenTtl"`
	IsActive        bool      `db:"is_active" json:"isActive"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
