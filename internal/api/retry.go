package api

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/fedapay/fedapay-go/internal/apierrors"
	"github.com/fedapay/fedapay-go/internal/transport"
)

// Default retry settings.
const (
	DefaultMaxRetries   = 0
	DefaultInitialDelay = 500 * time.Millisecond
	DefaultMaxDelay     = 2 * time.Second
)

// RetryPolicy decides whether a failed attempt is retried and how long to
// wait before the next one.
type RetryPolicy struct {
	// MaxRetries is the maximum number of retries after the first attempt.
	MaxRetries int
	// InitialDelay is the first backoff and the floor for every backoff.
	InitialDelay time.Duration
	// MaxDelay caps the exponential growth before jitter.
	MaxDelay time.Duration
	// Rand returns a value in [0, 1] used for jitter. Defaults to math/rand/v2.
	Rand func() float64
}

// DefaultRetryPolicy returns the default retry policy. Retries are disabled
// until MaxRetries is raised.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
	}
}

// ShouldRetry reports whether err, raised by the attempt after attempt
// retries, should be retried.
//
// Timeouts and connection failures are retried, as is HTTP 409 Conflict.
// TLS failures and every other error are not.
func (p *RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= p.MaxRetries {
		return false
	}

	switch transport.KindOf(err) {
	case transport.KindTimeout, transport.KindConnectionFailed:
		return true
	}

	var apiErr *apierrors.Error
	if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusConflict {
		return true
	}

	return false
}

// Backoff returns the delay before retry number attempt, counting from 1.
//
// The delay is InitialDelay doubled for each earlier retry and capped at
// MaxDelay, scaled by a random factor in [0.5, 1], and never below
// InitialDelay.
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(p.InitialDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	r := rand.Float64
	if p.Rand != nil {
		r = p.Rand
	}
	delay *= 0.5 * (1 + r())

	if delay < float64(p.InitialDelay) {
		delay = float64(p.InitialDelay)
	}

	return time.Duration(math.Round(delay))
}

// Wait blocks for Backoff(attempt) or until ctx is done.
func (p *RetryPolicy) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(p.Backoff(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
