package model

import "time"

type User struct {
	ID           int64      `db:"id" json:"id"`
	AppID        int64      `db:"app_id" json:"-"`
	Provider     string     `db:"provider" json:"provider"`
	ProviderID   string     `db:"provider_id" json:"-"`
	Email        *string    `db:"email" json:"email"`
	Nickname     *string    `db:"nickname" json:"nickname"`
	ProfileImage *string    `db:"profile_image" json:"profileImage"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt"`
	CreatedAt    time.Time  `db:"created_at" json:"-"`
	UpdatedAt    time.Time  `db:"updated_at" json:"-"`
}

// OAuthUserInfo : нормализованный профиль пользователя от OAuth-провайдера
type OAuthUserInfo struct {
	ProviderID   string
	Email        *string
	Nickname     *string
	ProfileImage *string
}
