package fedapay

import (
	"context"
	"encoding/json"
	"log/slog"
	"runtime"
	"sync"

	"github.com/fedapay/fedapay-go/internal/api"
	"github.com/fedapay/fedapay-go/internal/logging"
	"github.com/fedapay/fedapay-go/internal/transport"
)

// Version is the library version reported in request headers.
const Version = api.DefaultSDKVersion

// Params is an ordered set of request parameters.
type Params = api.Params

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return api.NewParams()
}

// ParamsFromMap builds a parameter set from m, ordered by key.
func ParamsFromMap(m map[string]any) *Params {
	return api.ParamsFromMap(m)
}

// Response is a parsed API response.
type Response = api.Response

// Client is the FedaPay API client. It is safe for concurrent use.
type Client struct {
	apiClient *api.Client

	Accounts     *Service[Account]
	APIKeys      *Service[APIKey]
	Customers    *Service[Customer]
	Transactions *TransactionService
	Payouts      *PayoutService
	Pages        *PageService
	Events       *Service[Event]
	Currencies   *Service[Currency]
}

var sslWarning sync.Once

// New creates a client for apiKey. Remaining settings start from
// DefaultConfig and are adjusted by opts.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.APIKey = apiKey
	return NewFromConfig(cfg, opts...)
}

// NewFromConfig creates a client from cfg, typically obtained from
// LoadConfig.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	cc := &clientConfig{cfg: cfg}
	for _, opt := range opts {
		opt(cc)
	}
	if err := cc.cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cc.logger
	if logger == nil {
		logger = buildLogger(cc.cfg)
	}

	conn, err := buildConnection(cc, logger)
	if err != nil {
		return nil, err
	}

	baseURL, _ := cc.cfg.BaseURL()
	retry := cc.cfg.retryPolicy()
	retry.Rand = cc.retryRand

	apiClient, err := api.NewClient(api.Config{
		BaseURL:         baseURL,
		APIVersion:      cc.cfg.APIVersion,
		APIKey:          cc.cfg.Credential(),
		AccountID:       cc.cfg.AccountID,
		Connection:      conn,
		Retry:           retry,
		OpenTimeout:     cc.cfg.OpenTimeout,
		ReadTimeout:     cc.cfg.ReadTimeout,
		EnableTelemetry: cc.cfg.EnableTelemetry,
		Logger:          logger,
		SDKVersion:      Version,
		ClientUserAgent: clientUserAgent(),
	})
	if err != nil {
		return nil, err //coverage:ignore
	}

	c := &Client{apiClient: apiClient}
	c.Accounts = newService[Account](c, accountResource)
	c.APIKeys = newService[APIKey](c, apiKeyResource)
	c.Customers = newService[Customer](c, customerResource)
	c.Transactions = &TransactionService{Service: newService[Transaction](c, transactionResource)}
	c.Payouts = &PayoutService{Service: newService[Payout](c, payoutResource)}
	c.Pages = &PageService{Service: newService[Page](c, pageResource)}
	c.Events = newService[Event](c, eventResource)
	c.Currencies = newService[Currency](c, currencyResource)

	return c, nil
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
	defaultErr    error
)

// Default returns a process-wide client configured from the environment.
// It is built on first use; later calls return the same client or error.
func Default() (*Client, error) {
	defaultOnce.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			defaultErr = err
			return
		}
		defaultClient, defaultErr = NewFromConfig(cfg)
	})
	return defaultClient, defaultErr
}

// Do performs a raw API call. path is relative to the version segment, for
// example "/customers". Most callers use the typed services instead.
func (c *Client) Do(ctx context.Context, method, path string, params *Params, opts ...RequestOption) (*Response, error) {
	return c.apiClient.Execute(ctx, method, path, params, opts...)
}

// Request runs fn with a call scope bound to ctx and returns the last
// response received by calls made with the context passed to fn. Telemetry
// about one call is only reported on later calls in the same scope.
func (c *Client) Request(ctx context.Context, fn func(ctx context.Context) error) (*Response, error) {
	return c.apiClient.Request(ctx, fn)
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

func buildLogger(cfg Config) *slog.Logger {
	if cfg.LogLevel == "" {
		return logging.Discard()
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	return logging.New(
		logging.WithLevel(level),
		logging.WithFormat(logging.Format(cfg.LogFormat)),
		logging.WithAttr(slog.String("lib", "fedapay-go")),
	)
}

func buildConnection(cc *clientConfig, logger *slog.Logger) (transport.Connection, error) {
	var conn transport.Connection
	switch {
	case cc.conn != nil:
		conn = cc.conn
	case cc.httpClient != nil:
		conn = transport.NewHTTPConnectionFromClient(cc.httpClient)
	default:
		if !cc.cfg.VerifySSLCerts {
			sslWarning.Do(func() {
				logger.Warn("SSL certificate verification is disabled. " +
					"You should only do this in development, never in production.")
			})
		}
		httpConn, err := transport.NewHTTPConnection(transport.TLSConfig{
			VerifyCerts:  cc.cfg.VerifySSLCerts,
			CABundlePath: cc.cfg.CABundlePath,
		})
		if err != nil {
			return nil, err
		}
		conn = httpConn
	}

	if cc.limiter != nil {
		conn = transport.WithRateLimit(conn, cc.limiter)
	}
	if cc.breaker != nil {
		breaker := *cc.breaker
		breaker.OnStateChange = func(from, to string) {
			logger.Warn("Circuit breaker state changed",
				slog.String("from", from),
				slog.String("to", to),
			)
		}
		conn = transport.WithCircuitBreaker(conn, breaker)
	}
	return conn, nil
}

// clientUserAgent describes the runtime for the X-Fedapay-Client-User-Agent
// header.
func clientUserAgent() string {
	data, err := json.Marshal(map[string]string{
		"bindings_version": Version,
		"lang":             "go",
		"lang_version":     runtime.Version(),
		"platform":         runtime.GOOS + "/" + runtime.GOARCH,
		"publisher":        "fedapay",
	})
	if err != nil {
		return "" //coverage:ignore
	}
	return string(data)
}
