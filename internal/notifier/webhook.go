package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"identity-web-server/config"
)

// WebhookNotifier шлёт security-алерты во внешний webhook (Slack,
// Mattermost или свой endpoint). Пустой URL выключает отправку
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

func NewWebhookNotifier(cfg *config.WebhookConfig) *WebhookNotifier {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type reuseAlertPayload struct {
	Event       string    `json:"event"`
	UserID      int64     `json:"userId"`
	AppID       int64     `json:"appId"`
	TokenFamily string    `json:"tokenFamily"`
	DetectedAt  time.Time `json:"detectedAt"`
}

// NotifyReuseDetected отправляет алерт о повторном использовании
// refresh-токена. Сессии пользователя к этому моменту уже отозваны
func (n *WebhookNotifier) NotifyReuseDetected(userID, appID int64, tokenFamily string) error {
	if n.url == "" {
		return nil
	}

	payload := reuseAlertPayload{
		Event:       "refresh_token_reuse_detected",
		UserID:      userID,
		AppID:       appID,
		TokenFamily: tokenFamily,
		DetectedAt:  time.Now().UTC(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации алерта: %w", err)
	}

	response, err := n.httpClient.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ошибка отправки webhook: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return fmt.Errorf("webhook вернул статус %d", response.StatusCode)
	}
	return nil
}
