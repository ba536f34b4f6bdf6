// Package apierrors provides shared error types for the FedaPay client.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind identifies which class of failure an [Error] represents.
type Kind int

const (
	// KindAPI is the catch-all for server errors and malformed responses.
	KindAPI Kind = iota
	// KindAuthentication indicates invalid credentials.
	KindAuthentication
	// KindInvalidRequest indicates the request carried invalid parameters.
	KindInvalidRequest
	// KindAPIConnection indicates the API could not be reached.
	KindAPIConnection
	// KindSignatureVerification indicates a webhook signature did not verify.
	KindSignatureVerification
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication_error"
	case KindInvalidRequest:
		return "invalid_request_error"
	case KindAPIConnection:
		return "api_connection_error"
	case KindSignatureVerification:
		return "signature_verification_error"
	default:
		return "api_error"
	}
}

// Sentinel errors for errors.Is() checks
var (
	// ErrAPI matches every error of kind KindAPI.
	ErrAPI = errors.New("api error")

	// ErrAuthentication matches every error of kind KindAuthentication.
	ErrAuthentication = errors.New("authentication error")

	// ErrInvalidRequest matches every error of kind KindInvalidRequest.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAPIConnection matches every error of kind KindAPIConnection.
	ErrAPIConnection = errors.New("api connection error")

	// ErrSignatureVerification matches every error of kind KindSignatureVerification.
	ErrSignatureVerification = errors.New("signature verification failed")

	// ErrMissingAPIKey is returned when neither an API key nor a token is configured.
	ErrMissingAPIKey = errors.New("API key or token is required")
)

// Error is the error type returned by every FedaPay API operation.
type Error struct {
	Kind    Kind
	Message string

	// Param is the offending parameter of an invalid request, if reported.
	Param string
	// SigHeader is the signature header that failed verification.
	SigHeader string

	HTTPStatus  int
	HTTPBody    string
	HTTPHeaders http.Header
	Code        string
	JSONBody    map[string]any
	RequestID   string

	// Err is the underlying cause, typically a transport failure.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.HTTPStatus != 0 {
		fmt.Fprintf(&b, "(Status %d) ", e.HTTPStatus)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, "(Request %s) ", e.RequestID)
	}
	b.WriteString(e.Message)
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindAuthentication:
		return target == ErrAuthentication
	case KindInvalidRequest:
		return target == ErrInvalidRequest
	case KindAPIConnection:
		return target == ErrAPIConnection
	case KindSignatureVerification:
		return target == ErrSignatureVerification
	case KindAPI:
		return target == ErrAPI
	}
	return false
}

// NewSignatureVerificationError returns a signature failure for header.
// The payload is kept as the HTTP body for diagnostics.
func NewSignatureVerificationError(message, header string, payload []byte) *Error {
	return &Error{
		Kind:      KindSignatureVerification,
		Message:   message,
		SigHeader: header,
		HTTPBody:  string(payload),
	}
}

// NewInvalidRequestError returns an invalid request error for param raised
// before any request is sent.
func NewInvalidRequestError(message, param string) *Error {
	return &Error{
		Kind:    KindInvalidRequest,
		Message: message,
		Param:   param,
	}
}

// KindOf reports the kind of err if it is, or wraps, an *Error.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return KindAPI, false
}
