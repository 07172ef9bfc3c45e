package usecase

import (
	"context"

	syncdomain "inboxcal-backend/internal/sync/domain"
)

// SyncUsecase defines the interface for running and inspecting sync cycles
type SyncUsecase interface {
	Sync(ctx context.Context, userID string, resource syncdomain.Resource) (*syncdomain.SyncResult, error)
	Status(ctx context.Context, userID string) ([]*syncdomain.SyncState, error)
}
