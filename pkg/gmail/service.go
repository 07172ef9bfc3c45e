package gmail

import (
	"context"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"inboxcal-backend/pkg/apperror"
	"inboxcal-backend/pkg/google"
)

const user = "me"

// Service fetches messages for one access token at a time. It never refreshes
// tokens itself; the caller supplies a token valid for the current cycle.
// Requests are paced per user.
type Service struct {
	limiters *google.RateLimiters
	opts     []option.ClientOption
}

// NewService creates a Gmail fetcher. Extra client options are appended to
// every API client it builds.
func NewService(limiters *google.RateLimiters, opts ...option.ClientOption) *Service {
	if limiters == nil {
		limiters = google.UnlimitedRateLimiters()
	}
	return &Service{limiters: limiters, opts: opts}
}

func (s *Service) api(ctx context.Context, accessToken string) (*gmail.Service, error) {
	opts := append([]option.ClientOption{
		option.WithTokenSource(google.StaticTokenSource(accessToken)),
	}, s.opts...)
	return gmail.NewService(ctx, opts...)
}

// ListMessageIDs returns up to max message ids from a single list call,
// newest first as ordered by Gmail.
func (s *Service) ListMessageIDs(ctx context.Context, userID, accessToken string, max int64) ([]string, error) {
	limiter := s.limiters.For(userID)
	srv, err := s.api(ctx, accessToken)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrFetch, "gmail.list", err)
	}

	if err := limiter.Wait(ctx); err != nil {
		return nil, apperror.Wrap(apperror.ErrFetch, "gmail.list", err)
	}
	resp, err := srv.Users.Messages.List(user).MaxResults(max).Context(ctx).Do()
	if err != nil {
		noteRateLimit(limiter, err)
		return nil, apperror.Wrap(apperror.ErrFetch, "gmail.list", google.WrapError(err))
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessage fetches one message in full format.
func (s *Service) GetMessage(ctx context.Context, userID, accessToken, id string) (*gmail.Message, error) {
	limiter := s.limiters.For(userID)
	srv, err := s.api(ctx, accessToken)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrItemFetch, "gmail.get", err)
	}

	if err := limiter.Wait(ctx); err != nil {
		return nil, apperror.Wrap(apperror.ErrItemFetch, "gmail.get", err)
	}
	msg, err := srv.Users.Messages.Get(user, id).Format("full").Context(ctx).Do()
	if err != nil {
		noteRateLimit(limiter, err)
		return nil, apperror.Wrap(apperror.ErrItemFetch, "gmail.get "+id, google.WrapError(err))
	}
	return msg, nil
}

func noteRateLimit(limiter *google.RateLimiter, err error) {
	if google.IsRateLimited(err) {
		limiter.RecordRateLimitError(google.RetryAfter(err))
	}
}
