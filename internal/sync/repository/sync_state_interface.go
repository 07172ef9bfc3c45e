package repository

import (
	"context"
	"time"

	syncdomain "inboxcal-backend/internal/sync/domain"
)

// SyncStateRepository persists the per-resource sync state machine.
type SyncStateRepository interface {
	// Get returns nil, nil when no cycle has ever run for the resource.
	Get(ctx context.Context, userID string, resource syncdomain.Resource) (*syncdomain.SyncState, error)
	ListByUser(ctx context.Context, userID string) ([]*syncdomain.SyncState, error)
	// TryBeginSync moves the resource to syncing in a single conditional
	// update. It succeeds when the row is not syncing, or when it has been
	// syncing since before staleBefore.
	TryBeginSync(ctx context.Context, userID string, resource syncdomain.Resource, staleBefore time.Time) (bool, error)
	MarkIdle(ctx context.Context, userID string, resource syncdomain.Resource, syncedAt time.Time) error
	MarkError(ctx context.Context, userID string, resource syncdomain.Resource, message string) error
}
