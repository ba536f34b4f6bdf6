package fedapay

import (
	"errors"

	"github.com/fedapay/fedapay-go/internal/apierrors"
)

// Error is the error type returned for every failed API call and webhook
// verification. Inspect Kind, or use errors.Is with the sentinels below.
type Error = apierrors.Error

// ErrorKind identifies the category of an Error.
type ErrorKind = apierrors.Kind

// Error kinds.
const (
	// KindAPI is a server-side or unrecognized failure.
	KindAPI = apierrors.KindAPI
	// KindAuthentication means the credentials were rejected.
	KindAuthentication = apierrors.KindAuthentication
	// KindInvalidRequest means the request was malformed. Error.Param names
	// the offending parameter when known.
	KindInvalidRequest = apierrors.KindInvalidRequest
	// KindAPIConnection means no response was received.
	KindAPIConnection = apierrors.KindAPIConnection
	// KindSignatureVerification means a webhook signature did not verify.
	KindSignatureVerification = apierrors.KindSignatureVerification
)

// Sentinel errors for errors.Is() checks
var (
	// ErrAPI matches errors of kind KindAPI.
	ErrAPI = apierrors.ErrAPI

	// ErrAuthentication matches errors of kind KindAuthentication.
	ErrAuthentication = apierrors.ErrAuthentication

	// ErrInvalidRequest matches errors of kind KindInvalidRequest.
	ErrInvalidRequest = apierrors.ErrInvalidRequest

	// ErrAPIConnection matches errors of kind KindAPIConnection.
	ErrAPIConnection = apierrors.ErrAPIConnection

	// ErrSignatureVerification matches errors of kind KindSignatureVerification.
	ErrSignatureVerification = apierrors.ErrSignatureVerification

	// ErrMissingAPIKey is returned when neither an API key nor a token is set.
	ErrMissingAPIKey = apierrors.ErrMissingAPIKey

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrOperationNotAllowed is returned when a resource does not support
	// the requested operation.
	ErrOperationNotAllowed = errors.New("operation not allowed")
)

// KindOf reports the kind of err if it is, or wraps, an *Error.
func KindOf(err error) (ErrorKind, bool) {
	return apierrors.KindOf(err)
}
