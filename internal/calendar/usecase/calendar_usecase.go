package usecase

import (
	"context"
	"time"

	calendardomain "inboxcal-backend/internal/calendar/domain"
	"inboxcal-backend/internal/calendar/repository"
)

type calendarUsecase struct {
	repo repository.CalendarRepository
	now  func() time.Time
}

// NewCalendarUsecase creates a new instance of calendarUsecase
func NewCalendarUsecase(repo repository.CalendarRepository) CalendarUsecase {
	return &calendarUsecase{
		repo: repo,
		now:  time.Now,
	}
}

func (u *calendarUsecase) ListUpcoming(ctx context.Context, userID, search string) ([]*calendardomain.CalendarItem, error) {
	return u.repo.ListUpcoming(ctx, userID, calendardomain.EventFilter{
		From:   u.now(),
		Search: search,
		Limit:  repository.DefaultListLimit,
	})
}
