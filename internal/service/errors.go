package service

import "errors"

// Типизированные отказы refresh-пути. Handler транслирует их в HTTP-статусы
// и машиночитаемые коды; сами сервисы никогда не перехватывают и не
// переинтерпретируют их, чтобы не терять сигнал для reuse-алертинга
var (
	ErrInvalidRefreshToken       = errors.New("невалидный refresh-токен")
	ErrRefreshTokenNotFound      = errors.New("refresh-токен не найден")
	ErrRefreshTokenExpired       = errors.New("срок действия refresh-токена истёк")
	ErrRefreshTokenRevoked       = errors.New("refresh-токен отозван")
	ErrRefreshTokenAlreadyUsed   = errors.New("refresh-токен уже был использован")
	ErrRefreshTokenReuseDetected = errors.New("обнаружено повторное использование refresh-токена")

	ErrAppNotFound           = errors.New("приложение не найдено")
	ErrUserNotFound          = errors.New("пользователь не найден")
	ErrProviderNotConfigured = errors.New("провайдер не настроен для приложения")
	ErrInvalidProviderToken  = errors.New("провайдер отклонил access-токен")

	ErrRotationFailed = errors.New("не удалось выполнить ротацию токенов")
)

// Машиночитаемые коды ошибок refresh-пути
const (
	CodeInvalidRefreshToken       = "INVALID_REFRESH_TOKEN"
	CodeRefreshTokenNotFound      = "REFRESH_TOKEN_NOT_FOUND"
	CodeRefreshTokenExpired       = "REFRESH_TOKEN_EXPIRED"
	CodeRefreshTokenRevoked       = "REFRESH_TOKEN_REVOKED"
	CodeRefreshTokenAlreadyUsed   = "REFRESH_TOKEN_ALREADY_USED"
	CodeRefreshTokenReuseDetected = "REFRESH_TOKEN_REUSE_DETECTED"
)

// ErrorCode возвращает машиночитаемый код для отказа refresh-пути
// и пустую строку для остальных ошибок
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRefreshToken):
		return CodeInvalidRefreshToken
	case errors.Is(err, ErrRefreshTokenNotFound):
		return CodeRefreshTokenNotFound
	case errors.Is(err, ErrRefreshTokenExpired):
		return CodeRefreshTokenExpired
	case errors.Is(err, ErrRefreshTokenRevoked):
		return CodeRefreshTokenRevoked
	case errors.Is(err, ErrRefreshTokenAlreadyUsed):
		return CodeRefreshTokenAlreadyUsed
	case errors.Is(err, ErrRefreshTokenReuseDetected):
		return CodeRefreshTokenReuseDetected
	default:
		return ""
	}
}
