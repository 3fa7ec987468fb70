package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"

	"identity-web-server/internal/metrics"
	"identity-web-server/internal/model"
	"identity-web-server/internal/model/requestresponse"
	"identity-web-server/internal/ports"
	"identity-web-server/internal/util"
)

var (
	ErrDeviceNotFound = errors.New("устройство не найдено")
	ErrAlertNotFound  = errors.New("рассылка не найдена")
	ErrNoTarget       = errors.New("не указана цель рассылки")
	ErrFCMNotSet      = errors.New("FCM server key не настроен для приложения")
)

// FCM принимает не более 1000 registration_ids за запрос,
// шлём партиями по 500 как делает консоль Firebase
const fcmBatchSize = 500

// PushService : регистрация устройств и рассылка уведомлений через FCM
type PushService struct {
	pushRepo ports.PushRepositoryInterface
	sender   ports.FCMSenderInterface
}

func NewPushService(pushRepo ports.PushRepositoryInterface, sender ports.FCMSenderInterface) *PushService {
	return &PushService{
		pushRepo: pushRepo,
		sender:   sender,
	}
}

// RegisterDevice сохраняет FCM-токен устройства. Повторная регистрация
// того же токена реактивирует устройство и обновляет платформу
func (s *PushService) RegisterDevice(ctx context.Context, userID, appID int64, request *requestresponse.RegisterDeviceRequest) (*model.PushDevice, error) {
	device, err := s.pushRepo.UpsertDevice(ctx, &ports.UpsertDeviceParams{
		UserID:   userID,
		AppID:    appID,
		Token:    request.Token,
		Platform: request.Platform,
		DeviceID: request.DeviceID,
	})
	if err != nil {
		return nil, util.LogError("не удалось зарегистрировать устройство", err)
	}
	return device, nil
}

// ListDevices возвращает устройства пользователя, включая неактивные
func (s *PushService) ListDevices(ctx context.Context, userID, appID int64) ([]*model.PushDevice, error) {
	devices, err := s.pushRepo.FindDevicesByUser(ctx, userID, appID)
	if err != nil {
		return nil, util.LogError("не удалось получить список устройств", err)
	}
	return devices, nil
}

// DeactivateDevice выключает устройство пользователя.
// Чужое или несуществующее устройство даёт ErrDeviceNotFound
func (s *PushService) DeactivateDevice(ctx context.Context, deviceID, userID, appID int64) error {
	found, err := s.pushRepo.DeactivateDevice(ctx, deviceID, userID, appID)
	if err != nil {
		return util.LogError("не удалось деактивировать устройство", err)
	}
	if !found {
		return ErrDeviceNotFound
	}
	return nil
}

// resolveTargets возвращает userIds для рассылки по запросу
func (s *PushService) resolveTargets(ctx context.Context, appID int64, request *requestresponse.SendPushRequest) ([]int64, string, error) {
	switch {
	case request.UserID != nil:
		return []int64{*request.UserID}, "user", nil
	case len(request.UserIDs) > 0:
		return request.UserIDs, "users", nil
	case request.TargetType == "all":
		userIDs, err := s.pushRepo.FindActiveUserIDs(ctx, appID)
		if err != nil {
			return nil, "", util.LogError("не удалось получить пользователей приложения", err)
		}
		return userIDs, "all", nil
	default:
		return nil, "", ErrNoTarget
	}
}

// SendPush рассылает уведомление на устройства адресатов партиями.
// История сохраняется в push_alerts: запись создаётся в статусе pending
// и после рассылки переводится в completed либо failed. Токены,
// отвергнутые FCM как невалидные, деактивируются
func (s *PushService) SendPush(ctx context.Context, app *model.App, request *requestresponse.SendPushRequest) (*requestresponse.SendPushResponse, error) {
	if app.FCMServerKey == nil || *app.FCMServerKey == "" {
		return nil, ErrFCMNotSet
	}

	userIDs, targetType, err := s.resolveTargets(ctx, app.ID, request)
	if err != nil {
		return nil, err
	}

	targetJSON, err := json.Marshal(userIDs)
	if err != nil {
		return nil, util.LogError("не удалось сериализовать адресатов", err)
	}

	data := request.Data
	if data == nil {
		data = json.RawMessage("{}")
	}

	alert := &model.PushAlert{
		AppID:         app.ID,
		UserID:        request.UserID,
		Title:         request.Title,
		Body:          request.Body,
		Data:          data,
		ImageURL:      request.ImageURL,
		TargetType:    targetType,
		TargetUserIDs: targetJSON,
	}
	alert, err = s.pushRepo.CreateAlert(ctx, alert)
	if err != nil {
		return nil, util.LogError("не удалось создать запись рассылки", err)
	}

	devices, err := s.pushRepo.FindActiveDevicesByUsers(ctx, userIDs, app.ID)
	if err != nil {
		errorMessage := err.Error()
		if updateErr := s.pushRepo.UpdateAlertStatus(ctx, alert.ID, "failed", 0, 0, &errorMessage); updateErr != nil {
			util.LogError("не удалось обновить статус рассылки", updateErr)
		}
		return nil, util.LogError("не удалось получить устройства адресатов", err)
	}

	var payload map[string]interface{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, util.LogError("невалидное поле data", err)
		}
	}

	message := &ports.FCMMessage{
		Title:    request.Title,
		Body:     request.Body,
		Data:     payload,
		ImageURL: request.ImageURL,
	}

	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		tokens = append(tokens, device.Token)
	}

	sentCount, failedCount, invalidTokens := s.sendBatches(ctx, *app.FCMServerKey, tokens, message)

	for _, token := range invalidTokens {
		if err := s.pushRepo.DeactivateDeviceByToken(ctx, token, app.ID); err != nil {
			util.LogError("не удалось деактивировать невалидный FCM-токен", err)
		}
	}

	status := "completed"
	var errorMessage *string
	if sentCount == 0 && failedCount > 0 {
		status = "failed"
		text := "все отправки завершились ошибкой"
		errorMessage = &text
	}
	if err := s.pushRepo.UpdateAlertStatus(ctx, alert.ID, status, sentCount, failedCount, errorMessage); err != nil {
		util.LogError("не удалось обновить статус рассылки", err)
	}

	log.Printf("рассылка %d завершена: отправлено %d, ошибок %d, устройств %d",
		alert.ID, sentCount, failedCount, len(devices))

	return &requestresponse.SendPushResponse{
		AlertID:     alert.ID,
		SentCount:   sentCount,
		FailedCount: failedCount,
		Status:      status,
	}, nil
}

// sendBatches шлёт партии токенов в FCM параллельно.
// Ошибка одной партии не отменяет остальные: её устройства
// учитываются как failed
func (s *PushService) sendBatches(ctx context.Context, serverKey string, tokens []string, message *ports.FCMMessage) (int, int, []string) {
	var batches [][]string
	for start := 0; start < len(tokens); start += fcmBatchSize {
		end := start + fcmBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batches = append(batches, tokens[start:end])
	}

	results := make([]*ports.FCMSendResult, len(batches))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)

	for index, batch := range batches {
		index, batch := index, batch
		group.Go(func() error {
			result, err := s.sender.SendToDevices(groupCtx, serverKey, batch, message)
			if err != nil {
				log.Printf("ошибка отправки партии %d: %v", index, err)
				results[index] = &ports.FCMSendResult{FailedCount: len(batch)}
				return nil
			}
			results[index] = result
			return nil
		})
	}
	// ошибок из горутин не возвращаем, Wait нужен только как барьер
	_ = group.Wait()

	sentCount, failedCount := 0, 0
	var invalidTokens []string
	for _, result := range results {
		sentCount += result.SentCount
		failedCount += result.FailedCount
		invalidTokens = append(invalidTokens, result.InvalidTokens...)
	}

	if sentCount > 0 {
		metrics.PushSentTotal.WithLabelValues("success").Add(float64(sentCount))
	}
	if failedCount > 0 {
		metrics.PushSentTotal.WithLabelValues("failure").Add(float64(failedCount))
	}

	return sentCount, failedCount, invalidTokens
}

// ListAlerts возвращает историю рассылок приложения постранично
func (s *PushService) ListAlerts(ctx context.Context, appID int64, limit, offset int) ([]*model.PushAlert, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	alerts, total, err := s.pushRepo.FindAlerts(ctx, appID, limit, offset)
	if err != nil {
		return nil, 0, util.LogError("не удалось получить историю рассылок", err)
	}
	return alerts, total, nil
}

// GetAlert возвращает одну рассылку приложения
func (s *PushService) GetAlert(ctx context.Context, id, appID int64) (*model.PushAlert, error) {
	alert, err := s.pushRepo.FindAlertByID(ctx, id, appID)
	if err != nil {
		return nil, util.LogError("не удалось получить рассылку", err)
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}
	return alert, nil
}
