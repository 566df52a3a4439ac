package fileproc

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a FileProvider and caps its request rate,
// grounded on the teacher's RateLimitedStore (replacing the wait-timeout
// passed per-call with a single bounded WaitN against the caller's own
// context, since callers here are Temporal activities that already carry a
// deadline).
type RateLimitedProvider struct {
	wrapped FileProvider
	limiter *rate.Limiter
}

var _ FileProvider = RateLimitedProvider{}

func NewRateLimitedProvider(p FileProvider, eventsPerSecond float64, burst int) RateLimitedProvider {
	return RateLimitedProvider{wrapped: p, limiter: rate.NewLimiter(rate.Limit(eventsPerSecond), burst)}
}

func (r RateLimitedProvider) Size(ctx context.Context, directory, filename string) (int64, error) {
	if err := r.limiter.WaitN(ctx, 1); err != nil {
		return 0, err
	}
	return r.wrapped.Size(ctx, directory, filename)
}

func (r RateLimitedProvider) ReadRange(ctx context.Context, directory, filename string, start, end int64) ([]byte, error) {
	if err := r.limiter.WaitN(ctx, 1); err != nil {
		return nil, err
	}
	return r.wrapped.ReadRange(ctx, directory, filename, start, end)
}

func (r RateLimitedProvider) String() string { return r.wrapped.String() }
