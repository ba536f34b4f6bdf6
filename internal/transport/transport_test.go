package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestHTTPConnection_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "name=doe", string(body))

		w.Header().Set("Request-Id", "req_1")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	conn, err := NewHTTPConnection(TLSConfig{VerifyCerts: true})
	require.NoError(t, err)

	resp, err := conn.RoundTrip(context.Background(), &Request{
		Method: "POST",
		URL:    server.URL + "/v1/customers",
		Body:   []byte("name=doe"),
		Header: http.Header{"Authorization": {"Bearer sk_test"}},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "req_1", resp.Header.Get("Request-Id"))
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
}

func TestHTTPConnection_ErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	conn, err := NewHTTPConnection(TLSConfig{VerifyCerts: true})
	require.NoError(t, err)

	resp, err := conn.RoundTrip(context.Background(), &Request{Method: "GET", URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHTTPConnection_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	conn, err := NewHTTPConnection(TLSConfig{VerifyCerts: true})
	require.NoError(t, err)

	_, err = conn.RoundTrip(context.Background(), &Request{Method: "GET", URL: url})
	require.Error(t, err)
	assert.Equal(t, KindConnectionFailed, KindOf(err))
}

func TestHTTPConnection_ReadTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	conn, err := NewHTTPConnection(TLSConfig{VerifyCerts: true})
	require.NoError(t, err)

	_, err = conn.RoundTrip(context.Background(), &Request{
		Method:      "GET",
		URL:         server.URL,
		OpenTimeout: 50 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestHTTPConnection_ReadTimeoutStartsOnceConnected(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()
	defer close(release)

	conn, err := NewHTTPConnection(TLSConfig{VerifyCerts: true})
	require.NoError(t, err)

	start := time.Now()
	_, err = conn.RoundTrip(context.Background(), &Request{
		Method:      "GET",
		URL:         server.URL,
		OpenTimeout: 5 * time.Second,
		ReadTimeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.Contains(t, err.Error(), "read timeout after 50ms")
	assert.Less(t, time.Since(start), time.Second)
}

func TestHTTPConnection_SlowResponseWithinReadTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	conn, err := NewHTTPConnection(TLSConfig{VerifyCerts: true})
	require.NoError(t, err)

	resp, err := conn.RoundTrip(context.Background(), &Request{
		Method:      "GET",
		URL:         server.URL,
		OpenTimeout: 50 * time.Millisecond,
		ReadTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPConnection_CallerCanceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	conn, err := NewHTTPConnection(TLSConfig{VerifyCerts: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = conn.RoundTrip(ctx, &Request{Method: "GET", URL: server.URL})
	require.Error(t, err)
	assert.Equal(t, KindCanceled, KindOf(err))
}

func TestHTTPConnection_UntrustedCertificate(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	conn, err := NewHTTPConnection(TLSConfig{VerifyCerts: true})
	require.NoError(t, err)

	_, err = conn.RoundTrip(context.Background(), &Request{Method: "GET", URL: server.URL})
	require.Error(t, err)
	assert.Equal(t, KindTLS, KindOf(err))
}

func TestHTTPConnection_VerificationDisabled(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	conn, err := NewHTTPConnection(TLSConfig{VerifyCerts: false})
	require.NoError(t, err)

	resp, err := conn.RoundTrip(context.Background(), &Request{Method: "GET", URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewHTTPConnection_MissingCABundle(t *testing.T) {
	_, err := NewHTTPConnection(TLSConfig{VerifyCerts: true, CABundlePath: "testdata/missing.pem"})
	require.Error(t, err)
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, KindOther, KindOf(errors.New("plain")))
}

func TestWithCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	failing := ConnectionFunc(func(ctx context.Context, req *Request) (*Response, error) {
		calls.Add(1)
		return nil, &Error{Kind: KindConnectionFailed, Err: errors.New("refused")}
	})

	conn := WithCircuitBreaker(failing, BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute})
	req := &Request{Method: "GET", URL: "http://example.invalid"}

	for i := 0; i < 2; i++ {
		_, err := conn.RoundTrip(context.Background(), req)
		assert.Equal(t, KindConnectionFailed, KindOf(err))
	}

	_, err := conn.RoundTrip(context.Background(), req)
	assert.Equal(t, KindCircuitOpen, KindOf(err))
	assert.Equal(t, int32(2), calls.Load(), "open circuit must not reach the connection")
}

func TestWithCircuitBreaker_HTTPErrorsDoNotTrip(t *testing.T) {
	serverError := ConnectionFunc(func(ctx context.Context, req *Request) (*Response, error) {
		return &Response{StatusCode: 500}, nil
	})

	conn := WithCircuitBreaker(serverError, BreakerConfig{MaxFailures: 1})
	for i := 0; i < 3; i++ {
		resp, err := conn.RoundTrip(context.Background(), &Request{})
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	}
}

func TestWithRateLimit(t *testing.T) {
	var calls atomic.Int32
	ok := ConnectionFunc(func(ctx context.Context, req *Request) (*Response, error) {
		calls.Add(1)
		return &Response{StatusCode: 200}, nil
	})

	conn := WithRateLimit(ok, rate.NewLimiter(rate.Every(time.Hour), 1))

	_, err := conn.RoundTrip(context.Background(), &Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = conn.RoundTrip(ctx, &Request{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
