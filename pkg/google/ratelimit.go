package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces the requests of one account. It uses a token bucket
// with an extra backoff window after a 429 response.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter allows requestsPerSecond sustained with the given burst.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a request can be made, honouring any backoff period.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError sets a backoff period. Non-positive values default to
// 30 seconds.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfterSeconds <= 0 {
		retryAfterSeconds = 30
	}
	r.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}

// RateLimiters hands out one RateLimiter per account. Google quotas are
// per user, so a 429 for one account must not pause another.
type RateLimiters struct {
	mu                sync.Mutex
	requestsPerSecond float64
	burst             int
	byAccount         map[string]*RateLimiter
}

// NewRateLimiters creates limiters on demand with the given rate and burst.
func NewRateLimiters(requestsPerSecond float64, burst int) *RateLimiters {
	return &RateLimiters{
		requestsPerSecond: requestsPerSecond,
		burst:             burst,
		byAccount:         make(map[string]*RateLimiter),
	}
}

// UnlimitedRateLimiters never blocks. Used by tests.
func UnlimitedRateLimiters() *RateLimiters {
	return NewRateLimiters(float64(rate.Inf), 1)
}

// For returns the limiter of one account, creating it on first use.
func (p *RateLimiters) For(account string) *RateLimiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	rl, ok := p.byAccount[account]
	if !ok {
		rl = NewRateLimiter(p.requestsPerSecond, p.burst)
		p.byAccount[account] = rl
	}
	return rl
}
