package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"identity-web-server/internal/model/requestresponse"
	"identity-web-server/internal/ports"
	"identity-web-server/internal/service"
	"identity-web-server/internal/util"
)

type AuthenticationHandler struct {
	ports.AuthenticationServiceInterface
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationServiceInterface) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

// refreshFailureStatus сопоставляет отказ refresh-пути с HTTP-статусом.
// Все отказы, требующие повторной аутентификации, отдают 401
func refreshFailureStatus(err error) (int, string) {
	code := service.ErrorCode(err)
	switch {
	case errors.Is(err, service.ErrRefreshTokenNotFound):
		return http.StatusUnauthorized, code
	case errors.Is(err, service.ErrRefreshTokenExpired),
		errors.Is(err, service.ErrRefreshTokenRevoked),
		errors.Is(err, service.ErrRefreshTokenAlreadyUsed),
		errors.Is(err, service.ErrRefreshTokenReuseDetected),
		errors.Is(err, service.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, code
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// OAuthLogin godoc
// @Summary OAuth-аутентификация
// @Description Проверяет access-токен провайдера и выдаёт пару токенов сервиса
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.OAuthLoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.OAuthLoginResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Провайдер отклонил токен"
// @Failure 404 {object} requestresponse.ErrorResponse "Приложение не найдено"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/oauth [post]
func (h *AuthenticationHandler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.OAuthLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.Code == "" || req.Provider == "" || req.AccessToken == "" {
		util.HandleError(w, "code, provider и accessToken обязательны", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.AuthenticationServiceInterface.OAuthLogin(ctx, req.Code, req.Provider, req.AccessToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAppNotFound):
			util.HandleError(w, "приложение не найдено", "APP_NOT_FOUND", http.StatusNotFound)
		case errors.Is(err, service.ErrProviderNotConfigured):
			util.HandleError(w, "провайдер не настроен для приложения", "PROVIDER_NOT_CONFIGURED", http.StatusBadRequest)
		case errors.Is(err, service.ErrInvalidProviderToken):
			util.HandleError(w, "провайдер отклонил токен", "INVALID_PROVIDER_TOKEN", http.StatusUnauthorized)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", "INTERNAL_ERROR", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.OAuthLoginResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    result.Tokens.ExpiresIn,
		User: requestresponse.UserResponse{
			ID:           result.User.ID,
			Provider:     result.User.Provider,
			Email:        result.User.Email,
			Nickname:     result.User.Nickname,
			ProfileImage: result.User.ProfileImage,
			AppCode:      result.App.Code,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Refresh godoc
// @Summary Ротация refresh-токена
// @Description Обменивает действующий refresh-токен на новую пару токенов
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest true "Тело запроса"
// @Success 200 {object} requestresponse.RefreshTokenResponse "Новая пара токенов"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустое поле"
// @Failure 401 {object} requestresponse.ErrorResponse "Токен невалиден, истёк, отозван или использован повторно"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		util.HandleError(w, "refreshToken обязателен", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	tokens, err := h.AuthenticationServiceInterface.Refresh(ctx, req.RefreshToken)
	if err != nil {
		status, code := refreshFailureStatus(err)
		message := "требуется повторная аутентификация"
		if status == http.StatusInternalServerError {
			message = "внутренняя ошибка сервера"
		}
		util.HandleError(w, message, code, status)
		return
	}

	resp := requestresponse.RefreshTokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    tokens.ExpiresIn,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Отзывает refresh-токен, при revokeAll завершает все сессии пользователя
// @Tags Authentication
// @Accept json
// @Param body body requestresponse.LogoutRequest true "Тело запроса"
// @Success 204 "Сессия завершена"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустое поле"
// @Failure 401 {object} requestresponse.ErrorResponse "Токен невалиден или истёк"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestresponse.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		util.HandleError(w, "refreshToken обязателен", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	if err := h.AuthenticationServiceInterface.Logout(ctx, req.RefreshToken, req.RevokeAll); err != nil {
		status, code := refreshFailureStatus(err)
		message := "требуется повторная аутентификация"
		if status == http.StatusInternalServerError {
			message = "внутренняя ошибка сервера"
		}
		util.HandleError(w, message, code, status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
