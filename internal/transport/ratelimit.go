package transport

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimitedConnection struct {
	next    Connection
	limiter *rate.Limiter
}

// WithRateLimit wraps next so that every attempt, retries included, first
// takes a token from limiter.
func WithRateLimit(next Connection, limiter *rate.Limiter) Connection {
	return &rateLimitedConnection{next: next, limiter: limiter}
}

func (r *rateLimitedConnection) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		kind := KindOther
		if ctx.Err() != nil {
			kind = KindCanceled
		}
		return nil, &Error{Kind: kind, URL: req.URL, Err: err}
	}
	return r.next.RoundTrip(ctx, req)
}
