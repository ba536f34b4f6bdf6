package transport

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures WithCircuitBreaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive transport failures that opens the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial request.
	OpenTimeout time.Duration
	// OnStateChange is called on every state transition. Optional.
	OnStateChange func(from, to string)
}

type breakerConnection struct {
	next Connection
	cb   *gobreaker.CircuitBreaker
}

// WithCircuitBreaker wraps next so that consecutive transport failures open
// a circuit. While open, attempts fail immediately with KindCircuitOpen.
// HTTP responses of any status count as successes.
func WithCircuitBreaker(next Connection, cfg BreakerConfig) Connection {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "fedapay",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about the remote side.
			return err == nil || KindOf(err) == KindCanceled
		},
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(_ string, from, to gobreaker.State) {
			cfg.OnStateChange(from.String(), to.String())
		}
	}

	return &breakerConnection{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breakerConnection) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.RoundTrip(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &Error{Kind: KindCircuitOpen, URL: req.URL, Err: err}
		}
		return nil, err
	}
	return result.(*Response), nil
}
