package usecase

import (
	"context"
	"time"

	"google.golang.org/api/calendar/v3"

	calendardomain "inboxcal-backend/internal/calendar/domain"
)

// EventFetcher is the remote side of a calendar sync.
type EventFetcher interface {
	ListUpcoming(ctx context.Context, userID, accessToken string, now time.Time) ([]*calendar.Event, error)
}

// CalendarUsecase defines the interface for reading mirrored events
type CalendarUsecase interface {
	ListUpcoming(ctx context.Context, userID, search string) ([]*calendardomain.CalendarItem, error)
}
