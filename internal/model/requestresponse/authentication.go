package requestresponse

// OAuthLoginRequest : тело запроса на OAuth-аутентификацию
type OAuthLoginRequest struct {
	Code        string `json:"code" example:"wowa"`
	Provider    string `json:"provider" example:"kakao"`
	AccessToken string `json:"accessToken" example:"kakao_access_token"`
}

// UserResponse : профиль пользователя в ответе на логин
type UserResponse struct {
	ID           int64   `json:"id" example:"42"`
	Provider     string  `json:"provider" example:"kakao"`
	Email        *string `json:"email" example:"user@example.com"`
	Nickname     *string `json:"nickname" example:"user1"`
	ProfileImage *string `json:"profileImage"`
	AppCode      string  `json:"appCode" example:"wowa"`
}

// OAuthLoginResponse : ответ на успешную аутентификацию
type OAuthLoginResponse struct {
	AccessToken  string       `json:"accessToken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string       `json:"refreshToken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string       `json:"tokenType" example:"Bearer"`
	ExpiresIn    int64        `json:"expiresIn" example:"1800"`
	User         UserResponse `json:"user"`
}

// RefreshTokenRequest : запрос на обновление пары токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
}

// RefreshTokenResponse : ответ на успешную ротацию
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"tokenType" example:"Bearer"`
	ExpiresIn    int64  `json:"expiresIn" example:"1800"`
}

// LogoutRequest : запрос на завершение сессии
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	RevokeAll    bool   `json:"revokeAll,omitempty" example:"false"`
}

// ErrorResponse : тело ошибки с машиночитаемым кодом
type ErrorResponse struct {
	Error struct {
		Message string `json:"message" example:"требуется повторная аутентификация"`
		Code    string `json:"code" example:"INVALID_REFRESH_TOKEN"`
	} `json:"error"`
}
