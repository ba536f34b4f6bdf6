package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"os"
	"sync/atomic"
	"time"
)

// Default timeouts used when a Request does not set its own.
const (
	DefaultOpenTimeout = 30 * time.Second
	DefaultReadTimeout = 80 * time.Second
)

type openTimeoutKey struct{}

// TLSConfig controls certificate verification.
type TLSConfig struct {
	// VerifyCerts enables server certificate verification.
	VerifyCerts bool
	// CABundlePath is a PEM file of trusted roots. Empty uses the system pool.
	CABundlePath string
}

// HTTPConnection is a Connection backed by a pooled *http.Transport.
// It is safe for concurrent use.
type HTTPConnection struct {
	client *http.Client
}

// NewHTTPConnection creates a connection with its own connection pool.
func NewHTTPConnection(cfg TLSConfig) (*HTTPConnection, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if !cfg.VerifyCerts {
		tlsCfg.InsecureSkipVerify = true //nolint:gosec // opt-in via configuration
	} else if cfg.CABundlePath != "" {
		pool, err := loadCertPool(cfg.CABundlePath)
		if err != nil {
			return nil, err
		}
		tlsCfg.RootCAs = pool
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = tlsCfg
	base.DialContext = dialWithOpenTimeout

	return &HTTPConnection{client: &http.Client{Transport: base}}, nil
}

// NewHTTPConnectionFromClient wraps an existing client. Open timeouts are
// only honoured if the client's transport dials through the request context.
func NewHTTPConnectionFromClient(client *http.Client) *HTTPConnection {
	return &HTTPConnection{client: client}
}

// RoundTrip performs one HTTP attempt and reads the whole response body.
func (c *HTTPConnection) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	openTimeout := req.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = DefaultOpenTimeout
	}
	readTimeout := req.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	// One timer bounds the attempt: openTimeout until a connection is
	// obtained, then readTimeout until the body is fully read.
	attemptCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	var connected atomic.Bool
	deadline := time.AfterFunc(openTimeout, func() {
		if connected.Load() {
			cancel(&attemptTimeout{phase: "read", after: readTimeout})
			return
		}
		cancel(&attemptTimeout{phase: "open", after: openTimeout})
	})
	defer deadline.Stop()
	trace := &httptrace.ClientTrace{
		GotConn: func(httptrace.GotConnInfo) {
			if deadline.Stop() {
				connected.Store(true)
				deadline.Reset(readTimeout)
			}
		},
	}
	attemptCtx = httptrace.WithClientTrace(attemptCtx, trace)
	attemptCtx = context.WithValue(attemptCtx, openTimeoutKey{}, openTimeout)

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, req.URL, body)
	if err != nil {
		return nil, &Error{Kind: KindOther, URL: req.URL, Err: err}
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = append([]string(nil), vs...)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, attemptError(ctx, attemptCtx, req.URL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, attemptError(ctx, attemptCtx, req.URL, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// attemptTimeout is the cancellation cause of an attempt that ran out of
// time.
type attemptTimeout struct {
	phase string
	after time.Duration
}

func (e *attemptTimeout) Error() string {
	return fmt.Sprintf("%s timeout after %s", e.phase, e.after)
}

func (e *attemptTimeout) Timeout() bool { return true }

func attemptError(parent, attempt context.Context, url string, err error) *Error {
	var timeout *attemptTimeout
	if parent.Err() == nil && errors.As(context.Cause(attempt), &timeout) {
		return &Error{Kind: KindTimeout, URL: url, Err: fmt.Errorf("%w: %w", timeout, err)}
	}
	return &Error{Kind: classify(parent, err), URL: url, Err: err}
}

func dialWithOpenTimeout(ctx context.Context, network, addr string) (net.Conn, error) {
	d := net.Dialer{Timeout: DefaultOpenTimeout, KeepAlive: 30 * time.Second}
	if t, ok := ctx.Value(openTimeoutKey{}).(time.Duration); ok && t > 0 {
		d.Timeout = t
	}
	return d.DialContext(ctx, network, addr)
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("CA bundle %s contains no certificates", path)
	}
	return pool, nil
}
