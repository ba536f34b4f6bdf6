package api

import (
	"context"
	"encoding/json"
	"sync"
)

// TelemetryHeader carries metrics about the previous request.
const TelemetryHeader = "X-FedaPay-Client-Telemetry"

// requestMetrics describes one completed request.
type requestMetrics struct {
	RequestID         string `json:"request_id"`
	RequestDurationMS int64  `json:"request_duration_ms"`
}

type telemetryPayload struct {
	LastRequestMetrics requestMetrics `json:"last_request_metrics"`
}

// scope holds the per-caller state of a run of API calls: the last response
// and the metrics of the last successful request. Each Client.Request call
// gets its own scope.
type scope struct {
	mu           sync.Mutex
	lastResponse *Response
	lastMetrics  *requestMetrics
}

type scopeKey struct{}

func withScope(ctx context.Context, s *scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// scopeFrom returns the scope bound to ctx, or a fresh one that is discarded
// with the call.
func scopeFrom(ctx context.Context) *scope {
	if s, ok := ctx.Value(scopeKey{}).(*scope); ok {
		return s
	}
	return &scope{}
}

func (s *scope) setResponse(resp *Response) {
	s.mu.Lock()
	s.lastResponse = resp
	s.mu.Unlock()
}

func (s *scope) response() *Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResponse
}

func (s *scope) setMetrics(m requestMetrics) {
	s.mu.Lock()
	s.lastMetrics = &m
	s.mu.Unlock()
}

// telemetryHeader returns the encoded metrics of the previous request, or ""
// when there are none.
func (s *scope) telemetryHeader() string {
	s.mu.Lock()
	m := s.lastMetrics
	s.mu.Unlock()
	if m == nil {
		return ""
	}
	data, err := json.Marshal(telemetryPayload{LastRequestMetrics: *m})
	if err != nil {
		return "" //coverage:ignore
	}
	return string(data)
}
