package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncdomain "inboxcal-backend/internal/sync/domain"
	"inboxcal-backend/pkg/database"
)

func newRepo(t *testing.T) SyncStateRepository {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	return NewSyncStateRepository(db)
}

func longAgo() time.Time { return time.Now().Add(-time.Hour) }

func TestGet_MissingIsNil(t *testing.T) {
	repo := newRepo(t)
	state, err := repo.Get(context.Background(), "u1", syncdomain.ResourceMail)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestTryBeginSync_OnlyOneWinner(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	ok, err := repo.TryBeginSync(ctx, "u1", syncdomain.ResourceMail, longAgo())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TryBeginSync(ctx, "u1", syncdomain.ResourceMail, longAgo())
	require.NoError(t, err)
	assert.False(t, ok)

	// Resources and users are independent.
	ok, err = repo.TryBeginSync(ctx, "u1", syncdomain.ResourceCalendar, longAgo())
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.TryBeginSync(ctx, "u2", syncdomain.ResourceMail, longAgo())
	require.NoError(t, err)
	assert.True(t, ok)

	state, err := repo.Get(ctx, "u1", syncdomain.ResourceMail)
	require.NoError(t, err)
	assert.Equal(t, syncdomain.StatusSyncing, state.Status)
}

func TestTryBeginSync_ConcurrentCallers(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.TryBeginSync(ctx, "u1", syncdomain.ResourceMail, longAgo())
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestTryBeginSync_TakesOverStaleSync(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	ok, err := repo.TryBeginSync(ctx, "u1", syncdomain.ResourceMail, longAgo())
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.TryBeginSync(ctx, "u1", syncdomain.ResourceMail, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMarkIdleAndError(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.TryBeginSync(ctx, "u1", syncdomain.ResourceCalendar, longAgo())
	require.NoError(t, err)
	require.NoError(t, repo.MarkError(ctx, "u1", syncdomain.ResourceCalendar, "calendar.list: remote fetch failed"))

	state, err := repo.Get(ctx, "u1", syncdomain.ResourceCalendar)
	require.NoError(t, err)
	assert.Equal(t, syncdomain.StatusError, state.Status)
	require.NotNil(t, state.ErrorMessage)
	assert.Contains(t, *state.ErrorMessage, "remote fetch failed")
	assert.Nil(t, state.LastSyncAt)

	// An errored resource can be retried.
	ok, err := repo.TryBeginSync(ctx, "u1", syncdomain.ResourceCalendar, longAgo())
	require.NoError(t, err)
	require.True(t, ok)

	syncedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkIdle(ctx, "u1", syncdomain.ResourceCalendar, syncedAt))

	state, err = repo.Get(ctx, "u1", syncdomain.ResourceCalendar)
	require.NoError(t, err)
	assert.Equal(t, syncdomain.StatusIdle, state.Status)
	assert.Nil(t, state.ErrorMessage)
	require.NotNil(t, state.LastSyncAt)
	assert.True(t, syncedAt.Equal(*state.LastSyncAt))

	states, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, states, 1)
}
