package gcal

import (
	"context"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"inboxcal-backend/pkg/apperror"
	"inboxcal-backend/pkg/google"
)

// PrimaryCalendar is the only calendar mirrored.
const PrimaryCalendar = "primary"

// Service lists upcoming events of the primary calendar.
type Service struct {
	horizon    time.Duration
	maxResults int64
	limiters   *google.RateLimiters
	opts       []option.ClientOption
}

// NewService builds a calendar fetcher for the window [now, now+horizon].
func NewService(horizon time.Duration, maxResults int64, limiters *google.RateLimiters, opts ...option.ClientOption) *Service {
	if limiters == nil {
		limiters = google.UnlimitedRateLimiters()
	}
	return &Service{
		horizon:    horizon,
		maxResults: maxResults,
		limiters:   limiters,
		opts:       opts,
	}
}

// ListUpcoming issues one windowed request with recurring events expanded
// into instances, ordered by start time.
func (s *Service) ListUpcoming(ctx context.Context, userID, accessToken string, now time.Time) ([]*calendar.Event, error) {
	limiter := s.limiters.For(userID)
	opts := append([]option.ClientOption{
		option.WithTokenSource(google.StaticTokenSource(accessToken)),
	}, s.opts...)
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrFetch, "calendar.list", err)
	}

	if err := limiter.Wait(ctx); err != nil {
		return nil, apperror.Wrap(apperror.ErrFetch, "calendar.list", err)
	}
	now = now.UTC()
	resp, err := srv.Events.List(PrimaryCalendar).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(s.horizon).Format(time.RFC3339)).
		MaxResults(s.maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		if google.IsRateLimited(err) {
			limiter.RecordRateLimitError(google.RetryAfter(err))
		}
		return nil, apperror.Wrap(apperror.ErrFetch, "calendar.list", google.WrapError(err))
	}
	return resp.Items, nil
}
