package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"identity-web-server/config"
	"identity-web-server/internal/ports"
)

// FCMSender шлёт уведомления через legacy HTTP API Firebase Cloud
// Messaging. Авторизация ключом сервера из настроек приложения
type FCMSender struct {
	endpoint   string
	httpClient *http.Client
}

func NewFCMSender(cfg *config.PushConfig) *FCMSender {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FCMSender{
		endpoint: cfg.FCMEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type fcmRequest struct {
	RegistrationIDs []string               `json:"registration_ids"`
	Notification    fcmNotification        `json:"notification"`
	Data            map[string]interface{} `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string  `json:"title"`
	Body  string  `json:"body"`
	Image *string `json:"image,omitempty"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// SendToDevices отправляет одну партию токенов. Токены, про которые FCM
// сказал NotRegistered или InvalidRegistration, возвращаются отдельно,
// чтобы вызывающий мог их деактивировать
func (s *FCMSender) SendToDevices(ctx context.Context, serverKey string, tokens []string, message *ports.FCMMessage) (*ports.FCMSendResult, error) {
	payload := fcmRequest{
		RegistrationIDs: tokens,
		Notification: fcmNotification{
			Title: message.Title,
			Body:  message.Body,
			Image: message.ImageURL,
		},
		Data: message.Data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации FCM-запроса: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания FCM-запроса: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "key="+serverKey)

	response, err := s.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к FCM: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		return nil, fmt.Errorf("FCM вернул статус %d: %s", response.StatusCode, string(raw))
	}

	var parsed fcmResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа FCM: %w", err)
	}

	result := &ports.FCMSendResult{
		SentCount:   parsed.Success,
		FailedCount: parsed.Failure,
	}
	for index, item := range parsed.Results {
		if index >= len(tokens) {
			break
		}
		if item.Error == "NotRegistered" || item.Error == "InvalidRegistration" {
			result.InvalidTokens = append(result.InvalidTokens, tokens[index])
		}
	}
	return result, nil
}
