package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	syncdomain "inboxcal-backend/internal/sync/domain"
	"inboxcal-backend/pkg/apperror"
)

type syncStateRepository struct {
	db *gorm.DB
}

// NewSyncStateRepository creates a new instance of syncStateRepository
func NewSyncStateRepository(db *gorm.DB) SyncStateRepository {
	return &syncStateRepository{db: db}
}

func (r *syncStateRepository) Get(ctx context.Context, userID string, resource syncdomain.Resource) (*syncdomain.SyncState, error) {
	var state syncdomain.SyncState
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND resource = ?", userID, resource).
		First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.Wrap(apperror.ErrStore, "sync_state.get", err)
	}
	return &state, nil
}

func (r *syncStateRepository) ListByUser(ctx context.Context, userID string) ([]*syncdomain.SyncState, error) {
	var states []*syncdomain.SyncState
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("resource ASC").
		Find(&states).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrStore, "sync_state.list", err)
	}
	return states, nil
}

func (r *syncStateRepository) TryBeginSync(ctx context.Context, userID string, resource syncdomain.Resource, staleBefore time.Time) (bool, error) {
	now := time.Now().UTC()
	db := r.db.WithContext(ctx)

	// Rows are created lazily; losing the insert race is fine.
	seed := syncdomain.SyncState{
		UserID:    userID,
		Resource:  resource,
		Status:    syncdomain.StatusIdle,
		UpdatedAt: now,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return false, apperror.Wrap(apperror.ErrStore, "sync_state.seed", err)
	}

	res := db.Model(&syncdomain.SyncState{}).
		Where("user_id = ? AND resource = ?", userID, resource).
		Where("(status <> ? OR updated_at < ?)", syncdomain.StatusSyncing, staleBefore.UTC()).
		Updates(map[string]any{
			"status":     syncdomain.StatusSyncing,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, apperror.Wrap(apperror.ErrStore, "sync_state.begin", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *syncStateRepository) MarkIdle(ctx context.Context, userID string, resource syncdomain.Resource, syncedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&syncdomain.SyncState{}).
		Where("user_id = ? AND resource = ?", userID, resource).
		Updates(map[string]any{
			"status":        syncdomain.StatusIdle,
			"last_sync_at":  syncedAt.UTC(),
			"error_message": nil,
			"updated_at":    time.Now().UTC(),
		}).Error
	return apperror.Wrap(apperror.ErrStore, "sync_state.idle", err)
}

func (r *syncStateRepository) MarkError(ctx context.Context, userID string, resource syncdomain.Resource, message string) error {
	err := r.db.WithContext(ctx).Model(&syncdomain.SyncState{}).
		Where("user_id = ? AND resource = ?", userID, resource).
		Updates(map[string]any{
			"status":        syncdomain.StatusError,
			"error_message": message,
			"updated_at":    time.Now().UTC(),
		}).Error
	return apperror.Wrap(apperror.ErrStore, "sync_state.error", err)
}
