package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Kind classifies a transport failure.
type Kind int

const (
	// KindOther is a failure the client does not know how to recover from.
	KindOther Kind = iota
	// KindTimeout covers open and read timeouts.
	KindTimeout
	// KindConnectionFailed covers refused or reset connections and DNS failures.
	KindConnectionFailed
	// KindTLS covers handshake and certificate validation failures.
	KindTLS
	// KindCanceled means the caller's context ended the attempt.
	KindCanceled
	// KindCircuitOpen means a circuit breaker rejected the attempt.
	KindCircuitOpen
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnectionFailed:
		return "connection_failed"
	case KindTLS:
		return "tls"
	case KindCanceled:
		return "canceled"
	case KindCircuitOpen:
		return "circuit_open"
	default:
		return "other"
	}
}

// Error is a failure that prevented an HTTP response from being received.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the transport kind of err, or KindOther when err is not a
// transport failure.
func KindOf(err error) Kind {
	var tErr *Error
	if errors.As(err, &tErr) {
		return tErr.Kind
	}
	return KindOther
}

// classify maps an error from net/http to a Kind. parent is the caller's
// context, used to tell caller cancellation apart from attempt timeouts.
func classify(parent context.Context, err error) Kind {
	if parent.Err() != nil {
		return KindCanceled
	}

	// TLS checks come first: certificate errors are also net.Errors.
	var (
		certErr     *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		recordErr   tls.RecordHeaderError
		alertErr    tls.AlertError
	)
	switch {
	case errors.As(err, &certErr),
		errors.As(err, &unknownAuth),
		errors.As(err, &hostErr),
		errors.As(err, &invalidErr),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr):
		return KindTLS
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindConnectionFailed
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) || errors.Is(err, syscall.EPIPE) {
		return KindConnectionFailed
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnectionFailed
	}

	return KindOther
}
