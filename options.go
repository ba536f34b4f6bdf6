package fedapay

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/fedapay/fedapay-go/internal/api"
	"github.com/fedapay/fedapay-go/internal/transport"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	cfg        Config
	httpClient *http.Client
	conn       transport.Connection
	logger     *slog.Logger
	limiter    *rate.Limiter
	breaker    *transport.BreakerConfig
	retryRand  func() float64
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL, overriding the environment.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.cfg.APIBase = url
	}
}

// WithEnvironment selects the sandbox or production API.
func WithEnvironment(env Environment) Option {
	return func(c *clientConfig) {
		c.cfg.Environment = env
	}
}

// WithToken sets an OAuth token, used when no API key is set.
func WithToken(token string) Option {
	return func(c *clientConfig) {
		c.cfg.Token = token
	}
}

// WithAccountID sends every request on behalf of the given account.
func WithAccountID(id string) Option {
	return func(c *clientConfig) {
		c.cfg.AccountID = id
	}
}

// WithAPIVersion sets the API version path segment. Default: v1
func WithAPIVersion(version string) Option {
	return func(c *clientConfig) {
		c.cfg.APIVersion = version
	}
}

// WithRetries sets the number of retries for network failures and conflicts.
// Default: 0
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.cfg.MaxNetworkRetries = count
	}
}

// WithRetryDelays sets the initial and maximum backoff between retries.
// Default: 500ms and 2s
func WithRetryDelays(initial, maxDelay time.Duration) Option {
	return func(c *clientConfig) {
		c.cfg.InitialNetworkRetryDelay = initial
		c.cfg.MaxNetworkRetryDelay = maxDelay
	}
}

// WithTimeouts sets the connection and read timeouts of each attempt.
// Default: 30s and 80s
func WithTimeouts(open, read time.Duration) Option {
	return func(c *clientConfig) {
		c.cfg.OpenTimeout = open
		c.cfg.ReadTimeout = read
	}
}

// WithSSLVerification enables or disables server certificate verification.
func WithSSLVerification(verify bool) Option {
	return func(c *clientConfig) {
		c.cfg.VerifySSLCerts = verify
	}
}

// WithCABundle trusts the PEM certificates in path instead of the system pool.
func WithCABundle(path string) Option {
	return func(c *clientConfig) {
		c.cfg.CABundlePath = path
	}
}

// WithTelemetry reports the duration of the previous request to FedaPay.
// Metrics only flow between calls made with the context of one
// Client.Request; calls outside a Request scope never send them.
func WithTelemetry(enabled bool) Option {
	return func(c *clientConfig) {
		c.cfg.EnableTelemetry = enabled
	}
}

// WithLogger sets the logger for request and response summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client. TLS settings from the
// configuration are not applied to it.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithConnection replaces the HTTP transport entirely. It takes precedence
// over WithHTTPClient.
func WithConnection(conn Connection) Option {
	return func(c *clientConfig) {
		c.conn = conn
	}
}

// WithRateLimit limits outgoing attempts, retries included, to r per second
// with bursts of up to burst.
func WithRateLimit(r float64, burst int) Option {
	return func(c *clientConfig) {
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithCircuitBreaker stops sending requests for openTimeout after
// maxFailures consecutive network failures. HTTP errors do not count.
func WithCircuitBreaker(maxFailures uint32, openTimeout time.Duration) Option {
	return func(c *clientConfig) {
		c.breaker = &transport.BreakerConfig{
			MaxFailures: maxFailures,
			OpenTimeout: openTimeout,
		}
	}
}

// Connection sends a single HTTP attempt. Implement it to replace the
// network layer, for example in tests.
type Connection = transport.Connection

// ConnectionFunc adapts a function to the Connection interface.
type ConnectionFunc = transport.ConnectionFunc

// ConnectionRequest is one HTTP attempt handed to a Connection.
type ConnectionRequest = transport.Request

// ConnectionResponse is the fully read response a Connection returns.
type ConnectionResponse = transport.Response

// RequestOption configures a single API call.
type RequestOption = api.RequestOption

// WithIdempotencyKey sends key instead of a generated idempotency key.
func WithIdempotencyKey(key string) RequestOption {
	return api.WithIdempotencyKey(key)
}

// WithoutIdempotencyKey sends no idempotency key.
func WithoutIdempotencyKey() RequestOption {
	return api.WithoutIdempotencyKey()
}

// WithHeader adds a header to one call. Authorization cannot be overridden.
func WithHeader(key, value string) RequestOption {
	return api.WithHeader(key, value)
}

// WithRequestAPIKey uses key for one call.
func WithRequestAPIKey(key string) RequestOption {
	return api.WithRequestAPIKey(key)
}

// WithRequestAccount sends one call on behalf of account.
func WithRequestAccount(account string) RequestOption {
	return api.WithRequestAccount(account)
}
