package fedapay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.APIKey = testAPIKey
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, EnvironmentSandbox, cfg.Environment)
	assert.Equal(t, "v1", cfg.APIVersion)
	assert.Equal(t, 0, cfg.MaxNetworkRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.InitialNetworkRetryDelay)
	assert.Equal(t, 2*time.Second, cfg.MaxNetworkRetryDelay)
	assert.Equal(t, 30*time.Second, cfg.OpenTimeout)
	assert.Equal(t, 80*time.Second, cfg.ReadTimeout)
	assert.True(t, cfg.VerifySSLCerts)
	assert.False(t, cfg.EnableTelemetry)
	assert.Empty(t, cfg.LogLevel)
}

func TestConfig_BaseURL(t *testing.T) {
	tests := []struct {
		env     Environment
		base    string
		want    string
		wantErr bool
	}{
		{env: "", want: SandboxBaseURL},
		{env: "sandbox", want: SandboxBaseURL},
		{env: "development", want: SandboxBaseURL},
		{env: "test", want: SandboxBaseURL},
		{env: "production", want: ProductionBaseURL},
		{env: "LIVE", want: ProductionBaseURL},
		{env: "production", base: "https://proxy.example.com/", want: "https://proxy.example.com"},
		{env: "staging", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.env)+tt.base, func(t *testing.T) {
			cfg := Config{Environment: tt.env, APIBase: tt.base}
			got, err := cfg.BaseURL()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Credential(t *testing.T) {
	assert.Equal(t, "key", Config{APIKey: "key", Token: "token"}.Credential())
	assert.Equal(t, "token", Config{Token: "token"}.Credential())
	assert.Empty(t, Config{}.Credential())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"token only", func(c *Config) { c.APIKey = ""; c.Token = "tok" }, nil},
		{"no credential", func(c *Config) { c.APIKey = "" }, ErrMissingAPIKey},
		{"unknown environment", func(c *Config) { c.Environment = "staging" }, ErrInvalidConfig},
		{"no version", func(c *Config) { c.APIVersion = "" }, ErrInvalidConfig},
		{"negative retries", func(c *Config) { c.MaxNetworkRetries = -1 }, ErrInvalidConfig},
		{"zero initial delay", func(c *Config) { c.InitialNetworkRetryDelay = 0 }, ErrInvalidConfig},
		{"max below initial", func(c *Config) { c.MaxNetworkRetryDelay = time.Millisecond }, ErrInvalidConfig},
		{"zero timeout", func(c *Config) { c.ReadTimeout = 0 }, ErrInvalidConfig},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, ErrInvalidConfig},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidConfig},
		{"text log format", func(c *Config) { c.LogLevel = "debug"; c.LogFormat = "text" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("FEDAPAY_API_KEY", "sk_live_env")
	t.Setenv("FEDAPAY_ENVIRONMENT", "live")
	t.Setenv("FEDAPAY_ACCOUNT_ID", "42")
	t.Setenv("FEDAPAY_MAX_NETWORK_RETRIES", "3")
	t.Setenv("FEDAPAY_READ_TIMEOUT", "10s")
	t.Setenv("FEDAPAY_ENABLE_TELEMETRY", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sk_live_env", cfg.APIKey)
	assert.Equal(t, Environment("live"), cfg.Environment)
	assert.Equal(t, "42", cfg.AccountID)
	assert.Equal(t, 3, cfg.MaxNetworkRetries)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.OpenTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.InitialNetworkRetryDelay)
	assert.True(t, cfg.EnableTelemetry)
	assert.True(t, cfg.VerifySSLCerts)

	base, err := cfg.BaseURL()
	require.NoError(t, err)
	assert.Equal(t, ProductionBaseURL, base)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("FEDAPAY_API_KEY", "")
	t.Setenv("FEDAPAY_TOKEN", "")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	t.Setenv("FEDAPAY_API_KEY", testAPIKey)
	t.Setenv("FEDAPAY_MAX_NETWORK_RETRIES", "many")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestNewFromConfig_LogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	client, err := NewFromConfig(cfg, WithConnection(&stubConnection{handler: reply(200, `{}`)}))
	require.NoError(t, err)
	assert.Equal(t, SandboxBaseURL, client.BaseURL())
}

func TestLoadConfigFromFiles(t *testing.T) {
	for _, k := range []string{"FEDAPAY_ACCOUNT_ID", "FEDAPAY_MAX_NETWORK_RETRIES"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("FEDAPAY_API_KEY", "sk_sandbox_process")

	path := filepath.Join(t.TempDir(), ".env")
	content := "FEDAPAY_API_KEY=sk_sandbox_file\nFEDAPAY_ACCOUNT_ID=77\nFEDAPAY_MAX_NETWORK_RETRIES=2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "sk_sandbox_process", cfg.APIKey)
	assert.Equal(t, "77", cfg.AccountID)
	assert.Equal(t, 2, cfg.MaxNetworkRetries)
}

func TestLoadConfigFromFiles_MissingFile(t *testing.T) {
	_, err := LoadConfigFromFiles(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
