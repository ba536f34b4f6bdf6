package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Header names sent with every request.
const (
	headerAuthorization  = "Authorization"
	headerAccount        = "Fedapay-Account"
	headerAPIVersion     = "X-Api-Version"
	headerVersion        = "X-Version"
	headerSource         = "X-Source"
	headerIdempotencyKey = "Idempotency-Key"
	headerClientUA       = "X-Fedapay-Client-User-Agent"
)

// RequestContext describes one logical API call. It is built once and reused
// unchanged for every attempt.
type RequestContext struct {
	Method string
	// Path is the resource path without any query string.
	Path    string
	BaseURL string
	// URL is the full request URL, query string included.
	URL    string
	Params *Params
	// Query is the encoded query string, empty for body-carrying methods.
	Query string
	// Body is the form-encoded body, nil for query-carrying methods.
	Body   []byte
	Header http.Header

	IdempotencyKey string
	Account        string
	APIVersion     string
}

// requestConfig holds per-call overrides.
type requestConfig struct {
	apiKey         string
	account        string
	idempotencyKey string
	noIdempotency  bool
	header         http.Header
}

// RequestOption configures a single Execute call.
type RequestOption func(*requestConfig)

// WithRequestAPIKey overrides the API key for one call.
func WithRequestAPIKey(key string) RequestOption {
	return func(c *requestConfig) {
		c.apiKey = key
	}
}

// WithRequestAccount sets the account header for one call.
func WithRequestAccount(account string) RequestOption {
	return func(c *requestConfig) {
		c.account = account
	}
}

// WithIdempotencyKey supplies the idempotency key instead of generating one.
func WithIdempotencyKey(key string) RequestOption {
	return func(c *requestConfig) {
		c.idempotencyKey = key
	}
}

// WithoutIdempotencyKey disables idempotency key generation.
func WithoutIdempotencyKey() RequestOption {
	return func(c *requestConfig) {
		c.noIdempotency = true
	}
}

// WithHeader adds a header to one call.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		if c.header == nil {
			c.header = http.Header{}
		}
		c.header.Set(key, value)
	}
}

// usesQuery reports whether method carries its parameters in the URL.
func usesQuery(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	}
	return false
}

// needsIdempotencyKey reports whether method gets an idempotency key.
func needsIdempotencyKey(method string) bool {
	return method == http.MethodPost || method == http.MethodDelete
}

// buildRequest assembles the RequestContext for one logical call.
func (c *Client) buildRequest(method, path string, params *Params, rc *requestConfig) (*RequestContext, error) {
	method = strings.ToUpper(method)

	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}

	// Parameters embedded in the path sit beneath explicit ones.
	if u.RawQuery != "" {
		embedded, err := parseQuery(u.RawQuery)
		if err != nil {
			return nil, err
		}
		params = embedded.Merge(params)
	} else {
		params = params.Clone()
	}

	req := &RequestContext{
		Method:     method,
		Path:       u.Path,
		BaseURL:    c.baseURL,
		Params:     params,
		APIVersion: c.apiVersion,
		Account:    c.accountID,
	}

	endpoint := c.baseURL + "/" + c.apiVersion + u.Path
	if usesQuery(method) {
		req.Query = params.Encode()
		if req.Query != "" {
			endpoint += "?" + req.Query
		}
	} else {
		req.Body = []byte(params.Encode())
	}
	req.URL = endpoint

	req.Header = c.defaultHeaders(rc)
	for k, vs := range rc.header {
		if http.CanonicalHeaderKey(k) == headerAuthorization {
			continue
		}
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	if rc.account != "" {
		req.Header.Set(headerAccount, rc.account)
	}
	req.Account = req.Header.Get(headerAccount)

	switch {
	case rc.idempotencyKey != "":
		req.Header.Set(headerIdempotencyKey, rc.idempotencyKey)
	case req.Header.Get(headerIdempotencyKey) != "":
		// Supplied through WithHeader; keep it.
	case needsIdempotencyKey(method) && !rc.noIdempotency:
		req.Header.Set(headerIdempotencyKey, uuid.NewString())
	}
	req.IdempotencyKey = req.Header.Get(headerIdempotencyKey)

	if !usesQuery(method) {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return req, nil
}

func (c *Client) defaultHeaders(rc *requestConfig) http.Header {
	apiKey := c.apiKey
	if rc.apiKey != "" {
		apiKey = rc.apiKey
	}

	h := http.Header{}
	h.Set(headerAuthorization, "Bearer "+apiKey)
	h.Set(headerVersion, c.sdkVersion)
	h.Set(headerAPIVersion, c.apiVersion)
	h.Set(headerSource, "FedaPay GoLib")
	h.Set("Accept", "application/json")
	h.Set("User-Agent", c.userAgent)
	if c.clientUserAgent != "" {
		h.Set(headerClientUA, c.clientUserAgent)
	}
	if c.accountID != "" {
		h.Set(headerAccount, c.accountID)
	}
	return h
}
