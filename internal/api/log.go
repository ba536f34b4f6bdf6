package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fedapay/fedapay-go/internal/apierrors"
)

// logContext is the subset of a request that is logged. It starts from the
// RequestContext and is refreshed from response headers, which are
// authoritative when present.
type logContext struct {
	account        string
	apiVersion     string
	idempotencyKey string
	method         string
	path           string
	requestID      string
}

func newLogContext(req *RequestContext) logContext {
	return logContext{
		account:        req.Account,
		apiVersion:     req.APIVersion,
		idempotencyKey: req.IdempotencyKey,
		method:         req.Method,
		path:           req.Path,
	}
}

func (lc logContext) fromResponse(h http.Header) logContext {
	if h == nil {
		return lc
	}
	if v := h.Get(headerAccount); v != "" {
		lc.account = v
	}
	if v := h.Get(headerAPIVersion); v != "" {
		lc.apiVersion = v
	}
	if v := h.Get(headerIdempotencyKey); v != "" {
		lc.idempotencyKey = v
	}
	if v := h.Get(RequestIDHeader); v != "" {
		lc.requestID = v
	}
	return lc
}

func (c *Client) logRequest(ctx context.Context, req *RequestContext, numRetries int) {
	c.logger.LogAttrs(ctx, slog.LevelInfo, "Request to FedaPay API",
		slog.String("account", req.Account),
		slog.String("api_version", req.APIVersion),
		slog.String("idempotency_key", req.IdempotencyKey),
		slog.String("method", req.Method),
		slog.Int("num_retries", numRetries),
		slog.String("path", req.Path),
	)
	c.logger.LogAttrs(ctx, slog.LevelDebug, "Request details",
		slog.String("body", string(req.Body)),
		slog.String("idempotency_key", req.IdempotencyKey),
		slog.String("query_params", req.Query),
	)
}

func (c *Client) logResponse(ctx context.Context, lc logContext, elapsed time.Duration, status int, body []byte) {
	c.logger.LogAttrs(ctx, slog.LevelInfo, "Response from FedaPay API",
		slog.String("account", lc.account),
		slog.String("api_version", lc.apiVersion),
		slog.Duration("elapsed", elapsed),
		slog.String("idempotency_key", lc.idempotencyKey),
		slog.String("method", lc.method),
		slog.String("path", lc.path),
		slog.String("request_id", lc.requestID),
		slog.Int("status", status),
	)
	c.logger.LogAttrs(ctx, slog.LevelDebug, "Response details",
		slog.String("body", string(body)),
		slog.String("idempotency_key", lc.idempotencyKey),
		slog.String("request_id", lc.requestID),
	)
}

func (c *Client) logResponseError(ctx context.Context, lc logContext, elapsed time.Duration, err error) {
	c.logger.LogAttrs(ctx, slog.LevelError, "Request error",
		slog.Duration("elapsed", elapsed),
		slog.String("error_message", err.Error()),
		slog.String("idempotency_key", lc.idempotencyKey),
		slog.String("method", lc.method),
		slog.String("path", lc.path),
	)
}

func (c *Client) logAPIError(ctx context.Context, lc logContext, apiErr *apierrors.Error) {
	details, _ := extractErrorDetails(apiErr.JSONBody)
	c.logger.LogAttrs(ctx, slog.LevelError, "FedaPay API error",
		slog.Int("status", apiErr.HTTPStatus),
		slog.String("error_code", details.Code),
		slog.String("error_message", details.Message),
		slog.String("error_param", details.Param),
		slog.String("error_type", details.Type),
		slog.String("idempotency_key", lc.idempotencyKey),
		slog.String("request_id", lc.requestID),
	)
}

func (c *Client) logNetworkError(ctx context.Context, err error) {
	c.logger.LogAttrs(ctx, slog.LevelError, "FedaPay network error",
		slog.String("error_message", err.Error()),
	)
}
