package fedapay

import (
	"fmt"
	"strings"
	"time"

	"github.com/fedapay/fedapay-go/internal/api"
	"github.com/fedapay/fedapay-go/internal/config"
	"github.com/fedapay/fedapay-go/internal/logging"
	"github.com/fedapay/fedapay-go/internal/transport"
)

// Environment selects the FedaPay API the client talks to when no base URL
// is set explicitly.
type Environment string

const (
	// EnvironmentSandbox is the test environment. It is the default.
	EnvironmentSandbox Environment = "sandbox"
	// EnvironmentProduction is the live environment.
	EnvironmentProduction Environment = "production"
)

// API base URLs.
const (
	SandboxBaseURL    = "https://sandbox-api.fedapay.com"
	ProductionBaseURL = "https://api.fedapay.com"
)

// Config holds client settings. Fields are read from FEDAPAY_* environment
// variables by LoadConfig; the zero value of an unset field is replaced by
// the default listed in its tag.
type Config struct {
	// APIBase overrides the base URL selected by Environment.
	APIBase string `env:"FEDAPAY_API_BASE"`
	// Environment is sandbox (also development, test) or production (also live).
	Environment Environment `env:"FEDAPAY_ENVIRONMENT" envDefault:"sandbox"`

	// APIKey is the secret key. Token is used when APIKey is empty.
	APIKey    string `env:"FEDAPAY_API_KEY"`
	Token     string `env:"FEDAPAY_TOKEN"`
	AccountID string `env:"FEDAPAY_ACCOUNT_ID"`

	APIVersion string `env:"FEDAPAY_API_VERSION" envDefault:"v1"`

	MaxNetworkRetries        int           `env:"FEDAPAY_MAX_NETWORK_RETRIES" envDefault:"0"`
	InitialNetworkRetryDelay time.Duration `env:"FEDAPAY_INITIAL_NETWORK_RETRY_DELAY" envDefault:"500ms"`
	MaxNetworkRetryDelay     time.Duration `env:"FEDAPAY_MAX_NETWORK_RETRY_DELAY" envDefault:"2s"`

	OpenTimeout time.Duration `env:"FEDAPAY_OPEN_TIMEOUT" envDefault:"30s"`
	ReadTimeout time.Duration `env:"FEDAPAY_READ_TIMEOUT" envDefault:"80s"`

	VerifySSLCerts bool   `env:"FEDAPAY_VERIFY_SSL_CERTS" envDefault:"true"`
	CABundlePath   string `env:"FEDAPAY_CA_BUNDLE_PATH"`

	// EnableTelemetry sends metrics of the previous call on the next one
	// within a Client.Request scope.
	EnableTelemetry bool `env:"FEDAPAY_ENABLE_TELEMETRY" envDefault:"false"`

	// LogLevel enables request logging to stderr when set (debug, info,
	// warn, error). Empty disables logging.
	LogLevel  string `env:"FEDAPAY_LOG_LEVEL"`
	LogFormat string `env:"FEDAPAY_LOG_FORMAT" envDefault:"json"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Environment:              EnvironmentSandbox,
		APIVersion:               api.DefaultAPIVersion,
		MaxNetworkRetries:        api.DefaultMaxRetries,
		InitialNetworkRetryDelay: api.DefaultInitialDelay,
		MaxNetworkRetryDelay:     api.DefaultMaxDelay,
		OpenTimeout:              transport.DefaultOpenTimeout,
		ReadTimeout:              transport.DefaultReadTimeout,
		VerifySSLCerts:           true,
		LogFormat:                string(logging.FormatJSON),
	}
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first if present.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFromFiles loads the given .env files into the environment and
// then reads the configuration like LoadConfig. Variables already set in the
// process win over the files.
func LoadConfigFromFiles(paths ...string) (Config, error) {
	if err := config.LoadEnv(paths...); err != nil {
		return Config{}, err
	}
	return LoadConfig()
}

// Credential returns the API key, or the token when no key is set.
func (c Config) Credential() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.Token
}

// BaseURL returns APIBase if set, otherwise the URL of Environment.
func (c Config) BaseURL() (string, error) {
	if c.APIBase != "" {
		return strings.TrimRight(c.APIBase, "/"), nil
	}
	switch strings.ToLower(string(c.Environment)) {
	case "", "sandbox", "development", "test":
		return SandboxBaseURL, nil
	case "production", "live":
		return ProductionBaseURL, nil
	}
	return "", fmt.Errorf("%w: unknown environment %q", ErrInvalidConfig, c.Environment)
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Credential() == "" {
		return ErrMissingAPIKey
	}
	if _, err := c.BaseURL(); err != nil {
		return err
	}
	if c.APIVersion == "" {
		return fmt.Errorf("%w: API version is required", ErrInvalidConfig)
	}
	if c.MaxNetworkRetries < 0 {
		return fmt.Errorf("%w: max network retries must not be negative", ErrInvalidConfig)
	}
	if c.InitialNetworkRetryDelay <= 0 {
		return fmt.Errorf("%w: initial network retry delay must be positive", ErrInvalidConfig)
	}
	if c.MaxNetworkRetryDelay < c.InitialNetworkRetryDelay {
		return fmt.Errorf("%w: max network retry delay must not be below the initial delay", ErrInvalidConfig)
	}
	if c.OpenTimeout <= 0 || c.ReadTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch logging.Format(c.LogFormat) {
	case "", logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("%w: invalid log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

func (c Config) retryPolicy() *api.RetryPolicy {
	return &api.RetryPolicy{
		MaxRetries:   c.MaxNetworkRetries,
		InitialDelay: c.InitialNetworkRetryDelay,
		MaxDelay:     c.MaxNetworkRetryDelay,
	}
}
