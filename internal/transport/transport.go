// Package transport performs single HTTP round trips for the API client.
//
// A [Connection] sends exactly one attempt and never retries; retry and
// backoff decisions belong to the caller. Failures that happen before an HTTP
// response is received are reported as [*Error] values carrying a [Kind]
// that the retry policy inspects.
//
// Connections can be decorated with [WithRateLimit] and
// [WithCircuitBreaker]. Decorators preserve the single-attempt contract.
package transport

import (
	"context"
	"net/http"
	"time"
)

// Request describes one HTTP attempt.
type Request struct {
	Method string
	URL    string
	Body   []byte
	Header http.Header

	// OpenTimeout bounds connection establishment, including TLS.
	OpenTimeout time.Duration
	// ReadTimeout bounds the wait for the response and the read of its body,
	// counted from the moment a connection is obtained.
	ReadTimeout time.Duration
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Connection performs a single HTTP attempt.
//
// A non-nil error means no HTTP response was received. Any HTTP status,
// including 4xx and 5xx, is returned as a Response with a nil error.
type Connection interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
}

// ConnectionFunc adapts a function to the Connection interface.
type ConnectionFunc func(ctx context.Context, req *Request) (*Response, error)

// RoundTrip calls f(ctx, req).
func (f ConnectionFunc) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
