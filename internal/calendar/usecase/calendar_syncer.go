package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	calendardomain "inboxcal-backend/internal/calendar/domain"
	"inboxcal-backend/internal/calendar/repository"
	syncdomain "inboxcal-backend/internal/sync/domain"
	"inboxcal-backend/pkg/gcal"
)

// calendarSyncer mirrors the upcoming window of the primary calendar in a
// single request.
type calendarSyncer struct {
	fetcher EventFetcher
	repo    repository.CalendarRepository
	log     *logrus.Logger
	now     func() time.Time
}

// NewCalendarSyncer creates the calendar stage of the sync coordinator.
func NewCalendarSyncer(fetcher EventFetcher, repo repository.CalendarRepository, log *logrus.Logger) syncdomain.Syncer {
	return &calendarSyncer{
		fetcher: fetcher,
		repo:    repo,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *calendarSyncer) Resource() syncdomain.Resource {
	return syncdomain.ResourceCalendar
}

func (s *calendarSyncer) Sync(ctx context.Context, userID, accessToken string) (int, error) {
	events, err := s.fetcher.ListUpcoming(ctx, userID, accessToken, s.now())
	if err != nil {
		return 0, err
	}

	items := make([]*calendardomain.CalendarItem, 0, len(events))
	for _, ev := range events {
		if ev == nil || ev.Id == "" {
			continue
		}
		items = append(items, gcal.ToCalendarItem(userID, ev))
	}

	if err := s.repo.UpsertBatch(ctx, items); err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "stored": len(items)}).Debug("calendar batch stored")
	return len(items), nil
}
