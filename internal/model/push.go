package model

import (
	"encoding/json"
	"time"
)

type PushDevice struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"-"`
	AppID      int64     `db:"app_id" json:"-"`
	Token      string    `db:"token" json:"token"`
	Platform   string    `db:"platform" json:"platform"`
	DeviceID   *string   `db:"device_id" json:"deviceId,omitempty"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	LastUsedAt time.Time `db:"last_used_at" json:"lastUsedAt"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"-"`
}

// PushAlert : запись истории рассылки push-уведомлений.
// Статус: pending -> completed | failed
type PushAlert struct {
	ID            int64           `db:"id" json:"id"`
	AppID         int64           `db:"app_id" json:"-"`
	UserID        *int64          `db:"user_id" json:"userId,omitempty"`
	Title         string          `db:"title" json:"title"`
	Body          string          `db:"body" json:"body"`
	Data          json.RawMessage `db:"data" json:"data"`
	ImageURL      *string         `db:"image_url" json:"imageUrl,omitempty"`
	TargetType    string          `db:"target_type" json:"targetType"`
	TargetUserIDs json.RawMessage `db:"target_user_ids" json:"targetUserIds"`
	SentCount     int             `db:"sent_count" json:"sentCount"`
	FailedCount   int             `db:"failed_count" json:"failedCount"`
	Status        string          `db:"status" json:"status"`
	ErrorMessage  *string         `db:"error_message" json:"errorMessage,omitempty"`
	SentAt        *time.Time      `db:"sent_at" json:"sentAt,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}
