package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fedapay/fedapay-go/internal/apierrors"
	"github.com/fedapay/fedapay-go/internal/logging"
	"github.com/fedapay/fedapay-go/internal/transport"
)

// Default client settings.
const (
	DefaultAPIVersion = "v1"
	DefaultSDKVersion = "0.1.0"
)

// Config configures NewClient. BaseURL, APIKey and Connection are required.
type Config struct {
	// BaseURL is the API root without the version segment,
	// e.g. https://sandbox-api.fedapay.com.
	BaseURL string
	// APIVersion is the version path segment. Default: v1.
	APIVersion string
	// APIKey is sent as a bearer token.
	APIKey string
	// AccountID, if set, is sent in the Fedapay-Account header.
	AccountID string

	Connection  transport.Connection
	Retry       *RetryPolicy
	OpenTimeout time.Duration
	ReadTimeout time.Duration

	// EnableTelemetry reports the previous request's metrics on the next
	// request of the same scope.
	EnableTelemetry bool

	// Logger receives request and response summaries. Default: discarded.
	Logger *slog.Logger

	SDKVersion      string
	UserAgent       string
	ClientUserAgent string
}

// Client executes API calls. It is safe for concurrent use; per-call state
// lives on the stack or in the caller's scope.
type Client struct {
	baseURL         string
	apiVersion      string
	apiKey          string
	accountID       string
	conn            transport.Connection
	retry           *RetryPolicy
	openTimeout     time.Duration
	readTimeout     time.Duration
	telemetry       bool
	logger          *slog.Logger
	sdkVersion      string
	userAgent       string
	clientUserAgent string

	now func() time.Time
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, apierrors.ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Connection == nil {
		return nil, fmt.Errorf("connection is required")
	}

	c := &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion:      cfg.APIVersion,
		apiKey:          cfg.APIKey,
		accountID:       cfg.AccountID,
		conn:            cfg.Connection,
		retry:           cfg.Retry,
		openTimeout:     cfg.OpenTimeout,
		readTimeout:     cfg.ReadTimeout,
		telemetry:       cfg.EnableTelemetry,
		logger:          cfg.Logger,
		sdkVersion:      cfg.SDKVersion,
		userAgent:       cfg.UserAgent,
		clientUserAgent: cfg.ClientUserAgent,
		now:             time.Now,
	}
	if c.apiVersion == "" {
		c.apiVersion = DefaultAPIVersion
	}
	if c.retry == nil {
		c.retry = DefaultRetryPolicy()
	}
	if c.openTimeout <= 0 {
		c.openTimeout = transport.DefaultOpenTimeout
	}
	if c.readTimeout <= 0 {
		c.readTimeout = transport.DefaultReadTimeout
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.sdkVersion == "" {
		c.sdkVersion = DefaultSDKVersion
	}
	if c.userAgent == "" {
		c.userAgent = "FedaPay/v1 GoBindings/" + c.sdkVersion
	}

	return c, nil
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIVersion returns the version path segment.
func (c *Client) APIVersion() string {
	return c.apiVersion
}

// Request runs fn with a fresh call scope bound to the context it receives
// and returns the last response observed by calls made with that context.
// Telemetry metrics flow from one call to the next only within a scope.
func (c *Client) Request(ctx context.Context, fn func(ctx context.Context) error) (*Response, error) {
	s := &scope{}
	err := fn(withScope(ctx, s))
	return s.response(), err
}

// Execute performs one logical API call: it builds the request, sends it,
// retries transient failures according to the retry policy and returns the
// parsed response or an *apierrors.Error.
func (c *Client) Execute(ctx context.Context, method, path string, params *Params, opts ...RequestOption) (*Response, error) {
	rc := &requestConfig{}
	for _, opt := range opts {
		opt(rc)
	}

	req, err := c.buildRequest(method, path, params, rc)
	if err != nil {
		return nil, &apierrors.Error{Kind: apierrors.KindInvalidRequest, Message: err.Error(), Param: "path", Err: err}
	}

	s := scopeFrom(ctx)
	lc := newLogContext(req)

	for attempt := 0; ; attempt++ {
		start := c.now()
		c.logRequest(ctx, req, attempt)

		resp, err := c.conn.RoundTrip(ctx, c.transportRequest(req, s))
		elapsed := c.now().Sub(start)

		if err != nil {
			c.logResponseError(ctx, lc, elapsed, err)
			if c.retry.ShouldRetry(err, attempt) {
				if waitErr := c.retry.Wait(ctx, attempt+1); waitErr != nil {
					return nil, c.networkError(ctx, waitErr, attempt)
				}
				continue
			}
			return nil, c.networkError(ctx, err, attempt)
		}

		rlc := lc.fromResponse(resp.Header)
		c.logResponse(ctx, rlc, elapsed, resp.StatusCode, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := Classify(resp.StatusCode, resp.Header, resp.Body)
			if c.retry.ShouldRetry(apiErr, attempt) {
				if waitErr := c.retry.Wait(ctx, attempt+1); waitErr != nil {
					return nil, c.networkError(ctx, waitErr, attempt)
				}
				continue
			}
			c.logAPIError(ctx, rlc, apiErr)
			return nil, apiErr
		}

		if c.telemetry && rlc.requestID != "" {
			s.setMetrics(requestMetrics{
				RequestID:         rlc.requestID,
				RequestDurationMS: elapsed.Milliseconds(),
			})
		}

		envelope, err := NewResponse(resp.StatusCode, resp.Header, resp.Body)
		if err != nil {
			return nil, generalAPIError(resp.StatusCode, resp.Header, resp.Body)
		}
		s.setResponse(envelope)
		return envelope, nil
	}
}

func (c *Client) transportRequest(req *RequestContext, s *scope) *transport.Request {
	header := req.Header.Clone()
	if c.telemetry {
		if v := s.telemetryHeader(); v != "" {
			header.Set(TelemetryHeader, v)
		}
	}
	return &transport.Request{
		Method:      req.Method,
		URL:         req.URL,
		Body:        req.Body,
		Header:      header,
		OpenTimeout: c.openTimeout,
		ReadTimeout: c.readTimeout,
	}
}

// networkError converts a transport failure into an APIConnectionError.
func (c *Client) networkError(ctx context.Context, err error, numRetries int) *apierrors.Error {
	c.logNetworkError(ctx, err)

	var message string
	switch transport.KindOf(err) {
	case transport.KindConnectionFailed:
		message = "Unexpected error communicating when trying to connect to FedaPay. " +
			"You may be seeing this message because your DNS is not working. " +
			"To check, try running 'host fedapay.com' from the command line."
	case transport.KindTLS:
		message = "Could not establish a secure connection to FedaPay, you may " +
			"need to upgrade your TLS configuration. To check, try running " +
			"'openssl s_client -connect api.fedapay.com:443' from the command line."
	case transport.KindTimeout:
		message = fmt.Sprintf("Could not connect to FedaPay (%s). "+
			"Please check your internet connection and try again. "+
			"If this problem persists, you should check FedaPay's service status at "+
			"https://twitter.com/fedapaystatus, or let us know at support@fedapay.com.", c.baseURL)
	case transport.KindCircuitOpen:
		message = "Requests to FedaPay are suspended after repeated connection failures. " +
			"They will resume automatically."
	default:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			message = "Request to FedaPay was canceled."
		} else {
			message = "Unexpected error communicating with FedaPay. " +
				"If this problem persists, let us know at support@fedapay.com."
		}
	}

	if numRetries > 0 {
		message += fmt.Sprintf(" Request was retried %d times.", numRetries)
	}
	message += fmt.Sprintf("\n\n(Network error: %v)", err)

	return &apierrors.Error{
		Kind:    apierrors.KindAPIConnection,
		Message: message,
		Err:     err,
	}
}
