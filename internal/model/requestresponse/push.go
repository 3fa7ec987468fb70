package requestresponse

import "encoding/json"

// RegisterDeviceRequest : регистрация FCM-токена устройства
type RegisterDeviceRequest struct {
	Token    string  `json:"token" example:"fcm_device_token"`
	Platform string  `json:"platform" example:"android"`
	DeviceID *string `json:"deviceId,omitempty" example:"device-123"`
}

// SendPushRequest : запрос на рассылку push-уведомления.
// Допустим ровно один из вариантов таргетинга: userId, userIds или targetType=all
type SendPushRequest struct {
	AppCode    string          `json:"appCode" example:"wowa"`
	UserID     *int64          `json:"userId,omitempty" example:"42"`
	UserIDs    []int64         `json:"userIds,omitempty"`
	TargetType string          `json:"targetType,omitempty" example:"all"`
	Title      string          `json:"title" example:"Заголовок"`
	Body       string          `json:"body" example:"Текст уведомления"`
	Data       json.RawMessage `json:"data,omitempty"`
	ImageURL   *string         `json:"imageUrl,omitempty"`
}

// SendPushResponse : результат рассылки
type SendPushResponse struct {
	AlertID     int64  `json:"alertId" example:"7"`
	SentCount   int    `json:"sentCount" example:"10"`
	FailedCount int    `json:"failedCount" example:"1"`
	Status      string `json:"status" example:"completed"`
}
