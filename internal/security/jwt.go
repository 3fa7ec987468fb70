package security

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"identity-web-server/config"
	"identity-web-server/internal/model"
	"identity-web-server/internal/util"
)

var (
	// ErrTokenExpired : срок действия токена истёк
	ErrTokenExpired = errors.New("срок действия токена истёк")
	// ErrTokenInvalid : подпись или форма токена невалидны
	ErrTokenInvalid = errors.New("невалидный токен")
	// ErrInvalidDuration : строка времени жизни не соответствует формату "30m", "14d"
	ErrInvalidDuration = errors.New("невалидный формат времени жизни токена")
)

// AccessClaims : полезная нагрузка access-токена
type AccessClaims struct {
	AppID    int64   `json:"appId"`
	Email    *string `json:"email"`
	Nickname *string `json:"nickname"`
	jwt.RegisteredClaims
}

// RefreshClaims : полезная нагрузка refresh-токена.
// JTI лежит в RegisteredClaims.ID, идентификатор пользователя — в Subject
type RefreshClaims struct {
	AppID       int64  `json:"appId"`
	TokenFamily string `json:"tokenFamily"`
	jwt.RegisteredClaims
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

// SignAccessToken подписывает access-токен секретом приложения.
// Возвращает токен и время его жизни в секундах
func (service *JWTService) SignAccessToken(user *model.User, app *model.App) (string, int64, error) {
	lifetime, err := ParseLifetime(app.AccessTokenTTL)
	if err != nil {
		return "", 0, util.LogError("ошибка парсинга времени жизни access-токена", err)
	}

	now := time.Now()
	claims := AccessClaims{
		AppID:    app.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	accessToken, err := jwtToken.SignedString([]byte(app.JWTSecret))
	if err != nil {
		return "", 0, util.LogError("ошибка подписи access-токена", err)
	}

	return accessToken, int64(lifetime.Seconds()), nil
}

// SignRefreshToken подписывает refresh-токен с jti и идентификатором семейства.
// Возвращает токен и абсолютный момент истечения
func (service *JWTService) SignRefreshToken(userID int64, app *model.App, jti, tokenFamily string) (string, time.Time, error) {
	lifetime, err := ParseLifetime(app.RefreshTokenTTL)
	if err != nil {
		return "", time.Time{}, util.LogError("ошибка парсинга времени жизни refresh-токена", err)
	}

	now := time.Now()
	expiresAt := now.Add(lifetime)
	claims := RefreshClaims{
		AppID:       app.ID,
		TokenFamily: tokenFamily,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	refreshToken, err := jwtToken.SignedString([]byte(app.JWTSecret))
	if err != nil {
		return "", time.Time{}, util.LogError("ошибка подписи refresh-токена", err)
	}

	return refreshToken, expiresAt, nil
}

var lifetimeRe = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseLifetime разбирает строку времени жизни с суффиксами s|m|h|d.
// time.ParseDuration не знает суффикс "d", поэтому разбор собственный
func ParseLifetime(lifetime string) (time.Duration, error) {
	match := lifetimeRe.FindStringSubmatch(lifetime)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, lifetime)
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, lifetime)
	}

	switch match[2] {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, lifetime)
	}
}

func signingKeyFunc(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return secret, nil
	}
}

func mapParseError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return util.LogError("срок действия токена истёк", ErrTokenExpired)
	}
	return util.LogError("невалидный токен", ErrTokenInvalid)
}

// VerifyAccessToken проверяет подпись и форму access-токена
func (service *JWTService) VerifyAccessToken(tokenStr string, secret []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, signingKeyFunc(secret))
	if err != nil || !token.Valid {
		return nil, mapParseError(err)
	}

	return claims, nil
}

// VerifyRefreshToken проверяет подпись и форму refresh-токена.
// Возвращает ErrTokenExpired, если срок действия по claims уже истёк
func (service *JWTService) VerifyRefreshToken(tokenStr string, secret []byte) (*RefreshClaims, error) {
	claims := &RefreshClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, signingKeyFunc(secret))
	if err != nil || !token.Valid {
		return nil, mapParseError(err)
	}

	if claims.ID == "" || claims.TokenFamily == "" {
		return nil, util.LogError("refresh-токен без jti или tokenFamily", ErrTokenInvalid)
	}

	return claims, nil
}

// PeekAppID достаёт appId из токена без проверки подписи.
// Используется только для выбора секрета приложения перед настоящей проверкой
func (service *JWTService) PeekAppID(tokenStr string) (int64, error) {
	claims := &RefreshClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return 0, util.LogError("не удалось разобрать токен", ErrTokenInvalid)
	}

	if claims.AppID == 0 {
		return 0, util.LogError("в токене отсутствует appId", ErrTokenInvalid)
	}

	return claims.AppID, nil
}
