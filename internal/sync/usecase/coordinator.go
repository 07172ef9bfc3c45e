package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	syncdomain "inboxcal-backend/internal/sync/domain"
	"inboxcal-backend/internal/sync/repository"
	"inboxcal-backend/pkg/apperror"
)

const recordTimeout = 5 * time.Second

// coordinator implements SyncUsecase. It owns the idle/syncing/error state
// machine and delegates the fetch, normalize and upsert stages to a Syncer.
type coordinator struct {
	states      repository.SyncStateRepository
	credentials syncdomain.CredentialSource
	tokens      syncdomain.AccessTokenSource
	syncers     map[syncdomain.Resource]syncdomain.Syncer
	staleAfter  time.Duration
	log         *logrus.Logger
	now         func() time.Time
}

// NewCoordinator creates a new sync coordinator. A syncing state older than
// staleAfter is treated as abandoned and may be taken over.
func NewCoordinator(
	states repository.SyncStateRepository,
	credentials syncdomain.CredentialSource,
	tokens syncdomain.AccessTokenSource,
	staleAfter time.Duration,
	log *logrus.Logger,
	syncers ...syncdomain.Syncer,
) SyncUsecase {
	byResource := make(map[syncdomain.Resource]syncdomain.Syncer, len(syncers))
	for _, s := range syncers {
		byResource[s.Resource()] = s
	}
	return &coordinator{
		states:      states,
		credentials: credentials,
		tokens:      tokens,
		syncers:     byResource,
		staleAfter:  staleAfter,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (c *coordinator) Sync(ctx context.Context, userID string, resource syncdomain.Resource) (*syncdomain.SyncResult, error) {
	syncer, ok := c.syncers[resource]
	if !ok {
		return nil, fmt.Errorf("sync: no syncer registered for %q", resource)
	}
	entry := c.log.WithFields(logrus.Fields{"user_id": userID, "resource": resource})

	// A user without a linked credential never enters syncing.
	refreshToken, err := c.credentials.RefreshTokenFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	acquired, err := c.states.TryBeginSync(ctx, userID, resource, c.now().Add(-c.staleAfter))
	if err != nil {
		return nil, err
	}
	if !acquired {
		entry.Info("sync already in progress")
		return &syncdomain.SyncResult{Resource: resource, InProgress: true}, nil
	}

	started := c.now()
	entry.Info("sync started")

	// The caller going away does not abort a cycle that holds the resource.
	cycleCtx, cancel := c.cycleContext(ctx)
	defer cancel()

	accessToken, err := c.tokens.AccessToken(cycleCtx, refreshToken)
	if err != nil {
		return nil, c.fail(ctx, entry, userID, resource, apperror.Wrap(apperror.ErrAuth, "sync.token", err))
	}

	count, err := syncer.Sync(cycleCtx, userID, accessToken)
	if err != nil {
		return nil, c.fail(ctx, entry, userID, resource, err)
	}

	recordCtx, cancelRecord := recordContext(ctx)
	defer cancelRecord()
	if err := c.states.MarkIdle(recordCtx, userID, resource, c.now()); err != nil {
		return nil, c.fail(ctx, entry, userID, resource, err)
	}
	entry.WithFields(logrus.Fields{
		"count":    count,
		"duration": c.now().Sub(started).String(),
	}).Info("sync finished")
	return &syncdomain.SyncResult{Resource: resource, Count: count}, nil
}

// cycleContext detaches the cycle from the caller. The cycle is bounded by
// the stale window so it never outlives its claim on the resource.
func (c *coordinator) cycleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.staleAfter > 0 {
		return context.WithTimeout(detached, c.staleAfter)
	}
	return context.WithCancel(detached)
}

// recordContext is used for the final state write, which must land even when
// the cycle context has expired.
func recordContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
}

// fail records the cycle failure so the resource does not stay in syncing.
func (c *coordinator) fail(ctx context.Context, entry *logrus.Entry, userID string, resource syncdomain.Resource, cause error) error {
	entry.WithError(cause).Error("sync failed")

	recordCtx, cancel := recordContext(ctx)
	defer cancel()
	if err := c.states.MarkError(recordCtx, userID, resource, cause.Error()); err != nil {
		entry.WithError(err).Error("failed to record sync error")
	}
	return cause
}

func (c *coordinator) Status(ctx context.Context, userID string) ([]*syncdomain.SyncState, error) {
	return c.states.ListByUser(ctx, userID)
}
