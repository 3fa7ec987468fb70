package ports

import (
	"context"

	"identity-web-server/internal/model"
)

type UpsertDeviceParams struct {
	UserID   int64
	AppID    int64
	Token    string
	Platform string
	DeviceID *string
}

type PushRepositoryInterface interface {
	UpsertDevice(ctx context.Context, params *UpsertDeviceParams) (*model.PushDevice, error)
	FindDevicesByUser(ctx context.Context, userID, appID int64) ([]*model.PushDevice, error)
	FindActiveDevicesByUsers(ctx context.Context, userIDs []int64, appID int64) ([]*model.PushDevice, error)
	FindActiveUserIDs(ctx context.Context, appID int64) ([]int64, error)
	DeactivateDevice(ctx context.Context, id, userID, appID int64) (bool, error)
	DeactivateDeviceByToken(ctx context.Context, token string, appID int64) error

	CreateAlert(ctx context.Context, alert *model.PushAlert) (*model.PushAlert, error)
	UpdateAlertStatus(ctx context.Context, id int64, status string, sentCount, failedCount int, errorMessage *string) error
	FindAlerts(ctx context.Context, appID int64, limit, offset int) ([]*model.PushAlert, int, error)
	FindAlertByID(ctx context.Context, id, appID int64) (*model.PushAlert, error)
}

// FCMSenderInterface : отправка push-сообщений в FCM
type FCMSenderInterface interface {
	SendToDevices(ctx context.Context, serverKey string, tokens []string, message *FCMMessage) (*FCMSendResult, error)
}

type FCMMessage struct {
	Title    string
	Body     string
	Data     map[string]interface{}
	ImageURL *string
}

// FCMSendResult : итог рассылки одной партии токенов
type FCMSendResult struct {
	SentCount     int
	FailedCount   int
	InvalidTokens []string
}
