package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://sandbox-api.fedapay.com"
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "sk_sandbox_123"
	}
	if cfg.Connection == nil {
		cfg.Connection = &fakeConnection{}
	}
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestBuildRequest_URLAndHeaders(t *testing.T) {
	c := newTestClient(t, Config{AccountID: "acc_1", ClientUserAgent: `{"lang":"go"}`})

	req, err := c.buildRequest("get", "/transactions", NewParams().Set("page", 2), &requestConfig{})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/transactions", req.Path)
	assert.Equal(t, "https://sandbox-api.fedapay.com/v1/transactions?page=2", req.URL)
	assert.Equal(t, "page=2", req.Query)
	assert.Nil(t, req.Body)

	assert.Equal(t, "Bearer sk_sandbox_123", req.Header.Get("Authorization"))
	assert.Equal(t, "v1", req.Header.Get("X-Api-Version"))
	assert.Equal(t, DefaultSDKVersion, req.Header.Get("X-Version"))
	assert.Equal(t, "FedaPay GoLib", req.Header.Get("X-Source"))
	assert.Equal(t, "acc_1", req.Header.Get("Fedapay-Account"))
	assert.Equal(t, `{"lang":"go"}`, req.Header.Get("X-Fedapay-Client-User-Agent"))
	assert.Equal(t, "FedaPay/v1 GoBindings/"+DefaultSDKVersion, req.Header.Get("User-Agent"))
	assert.Empty(t, req.Header.Get("Content-Type"))
	assert.Equal(t, "acc_1", req.Account)
	assert.Equal(t, "v1", req.APIVersion)
}

func TestBuildRequest_NoQueryString(t *testing.T) {
	c := newTestClient(t, Config{})

	req, err := c.buildRequest(http.MethodGet, "/currencies", nil, &requestConfig{})
	require.NoError(t, err)

	assert.Equal(t, "https://sandbox-api.fedapay.com/v1/currencies", req.URL)
	assert.Empty(t, req.Header.Get("Fedapay-Account"))
}

func TestBuildRequest_Body(t *testing.T) {
	c := newTestClient(t, Config{})
	params := NewParams().Set("amount", 1000).Set("currency", NewParams().Set("iso", "XOF"))

	req, err := c.buildRequest(http.MethodPost, "/transactions", params, &requestConfig{})
	require.NoError(t, err)

	assert.Equal(t, "https://sandbox-api.fedapay.com/v1/transactions", req.URL)
	assert.Equal(t, "amount=1000&currency[iso]=XOF", string(req.Body))
	assert.Empty(t, req.Query)
	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
}

func TestBuildRequest_IdempotencyKey(t *testing.T) {
	c := newTestClient(t, Config{})

	tests := []struct {
		method   string
		expected bool
	}{
		{http.MethodGet, false},
		{http.MethodHead, false},
		{http.MethodPut, false},
		{http.MethodPost, true},
		{http.MethodDelete, true},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req, err := c.buildRequest(tt.method, "/customers/1", nil, &requestConfig{})
			require.NoError(t, err)

			key := req.Header.Get("Idempotency-Key")
			if tt.expected {
				assert.NotEmpty(t, key)
				assert.Equal(t, key, req.IdempotencyKey)
			} else {
				assert.Empty(t, key)
				assert.Empty(t, req.IdempotencyKey)
			}
		})
	}
}

func TestBuildRequest_IdempotencyKeyUnique(t *testing.T) {
	c := newTestClient(t, Config{})

	first, err := c.buildRequest(http.MethodPost, "/customers", nil, &requestConfig{})
	require.NoError(t, err)
	second, err := c.buildRequest(http.MethodPost, "/customers", nil, &requestConfig{})
	require.NoError(t, err)

	assert.NotEqual(t, first.IdempotencyKey, second.IdempotencyKey)
}

func TestBuildRequest_CallerIdempotencyKey(t *testing.T) {
	c := newTestClient(t, Config{})

	rc := &requestConfig{}
	WithIdempotencyKey("my-key")(rc)
	req, err := c.buildRequest(http.MethodPost, "/customers", nil, rc)
	require.NoError(t, err)
	assert.Equal(t, "my-key", req.Header.Get("Idempotency-Key"))

	rc = &requestConfig{}
	WithHeader("idempotency-key", "header-key")(rc)
	req, err = c.buildRequest(http.MethodPost, "/customers", nil, rc)
	require.NoError(t, err)
	assert.Equal(t, "header-key", req.Header.Get("Idempotency-Key"))
	assert.Equal(t, "header-key", req.IdempotencyKey)

	rc = &requestConfig{}
	WithoutIdempotencyKey()(rc)
	req, err = c.buildRequest(http.MethodPost, "/customers", nil, rc)
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("Idempotency-Key"))
}

func TestBuildRequest_QueryMerge(t *testing.T) {
	c := newTestClient(t, Config{})

	req, err := c.buildRequest(http.MethodGet, "/x?coupon=25OFF", NewParams().Set("customer", "c"), &requestConfig{})
	require.NoError(t, err)
	assert.Equal(t, "coupon=25OFF&customer=c", req.Query)
	assert.Equal(t, "/x", req.Path)
	assert.Equal(t, "https://sandbox-api.fedapay.com/v1/x?coupon=25OFF&customer=c", req.URL)

	req, err = c.buildRequest(http.MethodGet, "/x?coupon=25OFF", NewParams().Set("coupon", "NEW"), &requestConfig{})
	require.NoError(t, err)
	assert.Equal(t, "coupon=NEW", req.Query)
}

func TestBuildRequest_QueryMergeIntoBody(t *testing.T) {
	c := newTestClient(t, Config{})

	req, err := c.buildRequest(http.MethodPost, "/x?coupon=25OFF", NewParams().Set("customer", "c"), &requestConfig{})
	require.NoError(t, err)

	assert.Equal(t, "https://sandbox-api.fedapay.com/v1/x", req.URL)
	assert.Equal(t, "coupon=25OFF&customer=c", string(req.Body))
}

func TestBuildRequest_DoesNotMutateParams(t *testing.T) {
	c := newTestClient(t, Config{})
	params := NewParams().Set("customer", "c")

	_, err := c.buildRequest(http.MethodGet, "/x?coupon=25OFF", params, &requestConfig{})
	require.NoError(t, err)

	assert.Equal(t, []string{"customer"}, params.Keys())
}

func TestBuildRequest_Overrides(t *testing.T) {
	c := newTestClient(t, Config{AccountID: "acc_default"})

	rc := &requestConfig{}
	for _, opt := range []RequestOption{
		WithRequestAPIKey("sk_other"),
		WithRequestAccount("acc_other"),
		WithHeader("Authorization", "Bearer hijacked"),
		WithHeader("X-Custom", "1"),
	} {
		opt(rc)
	}

	req, err := c.buildRequest(http.MethodGet, "/accounts", nil, rc)
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_other", req.Header.Get("Authorization"))
	assert.Equal(t, "acc_other", req.Header.Get("Fedapay-Account"))
	assert.Equal(t, "acc_other", req.Account)
	assert.Equal(t, "1", req.Header.Get("X-Custom"))
}

func TestBuildRequest_InvalidPath(t *testing.T) {
	c := newTestClient(t, Config{})

	_, err := c.buildRequest(http.MethodGet, "/x?a=%zz", nil, &requestConfig{})
	assert.Error(t, err)

	_, err = c.buildRequest(http.MethodGet, "%zz", nil, &requestConfig{})
	assert.Error(t, err)
}
