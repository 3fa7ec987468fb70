package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"identity-web-server/internal/model"
	"identity-web-server/internal/model/requestresponse"
	"identity-web-server/internal/service"
	"identity-web-server/internal/util"
)

type PushHandler struct {
	pushService *service.PushService
}

func NewPushHandler(pushService *service.PushService) *PushHandler {
	return &PushHandler{pushService}
}

// RegisterDevice godoc
// @Summary Регистрация устройства
// @Description Сохраняет FCM-токен устройства текущего пользователя
// @Tags Push
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body requestresponse.RegisterDeviceRequest true "Тело запроса"
// @Success 201 {object} model.PushDevice "Устройство зарегистрировано"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Нет авторизации"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/push/devices [post]
func (h *PushHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, app, ok := identityFromContext(w, r)
	if !ok {
		return
	}

	var req requestresponse.RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.Token == "" || req.Platform == "" {
		util.HandleError(w, "token и platform обязательны", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	device, err := h.pushService.RegisterDevice(ctx, userID, app.ID, &req)
	if err != nil {
		util.HandleError(w, "внутренняя ошибка сервера", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(device)
}

// ListDevices godoc
// @Summary Список устройств
// @Description Возвращает устройства текущего пользователя
// @Tags Push
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.PushDevice
// @Failure 401 {object} requestresponse.ErrorResponse "Нет авторизации"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/push/devices [get]
func (h *PushHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, app, ok := identityFromContext(w, r)
	if !ok {
		return
	}

	devices, err := h.pushService.ListDevices(ctx, userID, app.ID)
	if err != nil {
		util.HandleError(w, "внутренняя ошибка сервера", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	if devices == nil {
		devices = []*model.PushDevice{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(devices)
}

// DeactivateDevice godoc
// @Summary Деактивация устройства
// @Description Выключает устройство текущего пользователя
// @Tags Push
// @Security BearerAuth
// @Param id path int true "Идентификатор устройства"
// @Success 204 "Устройство деактивировано"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} requestresponse.ErrorResponse "Нет авторизации"
// @Failure 404 {object} requestresponse.ErrorResponse "Устройство не найдено"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/push/devices/{id} [delete]
func (h *PushHandler) DeactivateDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, app, ok := identityFromContext(w, r)
	if !ok {
		return
	}

	deviceID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		util.HandleError(w, "некорректный идентификатор устройства", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	if err := h.pushService.DeactivateDevice(ctx, deviceID, userID, app.ID); err != nil {
		if errors.Is(err, service.ErrDeviceNotFound) {
			util.HandleError(w, "устройство не найдено", "DEVICE_NOT_FOUND", http.StatusNotFound)
			return
		}
		util.HandleError(w, "внутренняя ошибка сервера", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SendPush godoc
// @Summary Рассылка push-уведомления
// @Description Отправляет уведомление выбранным пользователям приложения
// @Tags Push
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body requestresponse.SendPushRequest true "Тело запроса"
// @Success 200 {object} requestresponse.SendPushResponse "Результат рассылки"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный запрос или не указана цель"
// @Failure 401 {object} requestresponse.ErrorResponse "Нет авторизации"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/push/send [post]
func (h *PushHandler) SendPush(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, app, ok := identityFromContext(w, r)
	if !ok {
		return
	}

	var req requestresponse.SendPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Body == "" {
		util.HandleError(w, "title и body обязательны", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	resp, err := h.pushService.SendPush(ctx, app, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoTarget):
			util.HandleError(w, "не указана цель рассылки", "BAD_REQUEST", http.StatusBadRequest)
		case errors.Is(err, service.ErrFCMNotSet):
			util.HandleError(w, "FCM не настроен для приложения", "FCM_NOT_CONFIGURED", http.StatusBadRequest)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", "INTERNAL_ERROR", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// ListAlerts godoc
// @Summary История рассылок
// @Description Возвращает рассылки приложения постранично
// @Tags Push
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Размер страницы" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {array} model.PushAlert
// @Failure 401 {object} requestresponse.ErrorResponse "Нет авторизации"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/push/alerts [get]
func (h *PushHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, app, ok := identityFromContext(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	alerts, total, err := h.pushService.ListAlerts(ctx, app.ID, limit, offset)
	if err != nil {
		util.HandleError(w, "внутренняя ошибка сервера", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []*model.PushAlert{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(alerts)
}

// GetAlert godoc
// @Summary Одна рассылка
// @Description Возвращает рассылку приложения по идентификатору
// @Tags Push
// @Produce json
// @Security BearerAuth
// @Param id path int true "Идентификатор рассылки"
// @Success 200 {object} model.PushAlert
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} requestresponse.ErrorResponse "Нет авторизации"
// @Failure 404 {object} requestresponse.ErrorResponse "Рассылка не найдена"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/push/alerts/{id} [get]
func (h *PushHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, app, ok := identityFromContext(w, r)
	if !ok {
		return
	}

	alertID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		util.HandleError(w, "некорректный идентификатор рассылки", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	alert, err := h.pushService.GetAlert(ctx, alertID, app.ID)
	if err != nil {
		if errors.Is(err, service.ErrAlertNotFound) {
			util.HandleError(w, "рассылка не найдена", "ALERT_NOT_FOUND", http.StatusNotFound)
			return
		}
		util.HandleError(w, "внутренняя ошибка сервера", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(alert)
}

// identityFromContext достаёт пользователя и приложение, положенные
// auth-middleware, и сам пишет 401, если их нет
func identityFromContext(w http.ResponseWriter, r *http.Request) (int64, *model.App, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		util.HandleError(w, "нет авторизации", "UNAUTHORIZED", http.StatusUnauthorized)
		return 0, nil, false
	}
	app, ok := AppFromContext(r.Context())
	if !ok {
		util.HandleError(w, "нет авторизации", "UNAUTHORIZED", http.StatusUnauthorized)
		return 0, nil, false
	}
	return userID, app, true
}
