package domain

import "time"

// User is created on first Google sign-in and refreshed on every later login.
type User struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	Email              string    `json:"email" gorm:"uniqueIndex;not null"`
	Name               string    `json:"name"`
	AvatarURL          string    `json:"avatar_url,omitempty"`
	GoogleID           string    `json:"google_id" gorm:"index"`
	GoogleRefreshToken string    `json:"-"` // sealed with pkg/vault, never returned in JSON
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Session is the payload carried by the signed session cookie.
type Session struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"exp"`
}
