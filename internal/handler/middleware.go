package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"identity-web-server/internal/model"
	"identity-web-server/internal/ports"
	"identity-web-server/internal/util"
)

type contextKey string

const (
	userIDContextKey contextKey = "userID"
	appContextKey    contextKey = "app"
	claimsContextKey contextKey = "claims"
)

// AuthMiddleware проверяет Bearer access-токен. Приложение выбирается
// по appId из claims до проверки подписи, затем токен валидируется
// секретом этого приложения
type AuthMiddleware struct {
	jwtService  ports.JWTServiceInterface
	appResolver ports.AppResolverInterface
}

func NewAuthMiddleware(jwtService ports.JWTServiceInterface, appResolver ports.AppResolverInterface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		appResolver: appResolver,
	}
}

func (m *AuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			util.HandleError(w, "отсутствует заголовок Authorization", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		appID, err := m.jwtService.PeekAppID(tokenStr)
		if err != nil {
			util.HandleError(w, "невалидный токен", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		app, err := m.appResolver.ResolveByID(r.Context(), appID)
		if err != nil {
			util.HandleError(w, "внутренняя ошибка сервера", "INTERNAL_ERROR", http.StatusInternalServerError)
			return
		}
		if app == nil || !app.IsActive {
			util.HandleError(w, "невалидный токен", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtService.VerifyAccessToken(tokenStr, []byte(app.JWTSecret))
		if err != nil {
			util.HandleError(w, "невалидный или истёкший токен", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			util.HandleError(w, "невалидный токен", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		ctx = context.WithValue(ctx, appContextKey, app)
		ctx = context.WithValue(ctx, claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext возвращает идентификатор пользователя, положенный
// middleware в контекст запроса
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

// AppFromContext возвращает приложение из контекста запроса
func AppFromContext(ctx context.Context) (*model.App, bool) {
	app, ok := ctx.Value(appContextKey).(*model.App)
	return app, ok
}
