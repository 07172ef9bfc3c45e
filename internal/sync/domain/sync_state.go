package domain

import (
	"context"
	"time"
)

// Resource identifies one independently synchronized data domain.
type Resource string

const (
	ResourceMail     Resource = "mail"
	ResourceCalendar Resource = "calendar"
)

// SyncStatus is the per-resource state machine position.
type SyncStatus string

const (
	StatusIdle    SyncStatus = "idle"
	StatusSyncing SyncStatus = "syncing"
	StatusError   SyncStatus = "error"
)

// SyncState tracks one resource kind for one user. Rows are created lazily
// and never deleted.
type SyncState struct {
	UserID       string     `json:"user_id" gorm:"primaryKey"`
	Resource     Resource   `json:"resource" gorm:"primaryKey"`
	Status       SyncStatus `json:"status" gorm:"not null;default:idle"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Syncer runs the fetch, normalize and upsert stages for one resource.
// It returns the number of records written.
type Syncer interface {
	Resource() Resource
	Sync(ctx context.Context, userID, accessToken string) (int, error)
}

// CredentialSource yields a user's stored refresh token.
type CredentialSource interface {
	RefreshTokenFor(ctx context.Context, userID string) (string, error)
}

// AccessTokenSource exchanges a refresh token for a short-lived access token.
type AccessTokenSource interface {
	AccessToken(ctx context.Context, refreshToken string) (string, error)
}

// SyncResult is the outcome of one Sync call. InProgress means another
// cycle held the resource and nothing was done.
type SyncResult struct {
	Resource   Resource `json:"resource"`
	Count      int      `json:"count"`
	InProgress bool     `json:"in_progress"`
}
